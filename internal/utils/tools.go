package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var walletAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func EncryptPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// IsValidWalletAddress checks the 0x-prefixed 20-byte hex form of a ledger
// wallet address.
func IsValidWalletAddress(address string) bool {
	return walletAddressPattern.MatchString(address)
}

package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionData struct {
	UserID    uint
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

// SessionService issues and validates the session tokens backing the
// authenticated write endpoints.
type SessionService struct {
	sessions map[string]SessionData
	mutex    sync.RWMutex
	timeout  time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewSessionService(timeout time.Duration, logger *zap.Logger) *SessionService {
	ss := &SessionService{
		sessions: make(map[string]SessionData),
		timeout:  timeout,
		logger:   logger.With(zap.String("service", "session_service")),
		stopChan: make(chan struct{}),
	}

	go ss.startBackgroundCleanup()

	return ss
}

func (ss *SessionService) startBackgroundCleanup() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ss.stopChan:
			return
		case <-ticker.C:
			ss.cleanupExpiredSessions()
		}
	}
}

func (ss *SessionService) cleanupExpiredSessions() {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	now := time.Now()
	for token, session := range ss.sessions {
		if now.After(session.ExpiresAt) {
			delete(ss.sessions, token)
		}
	}
}

func (ss *SessionService) Create(userID uint, ipAddress, userAgent string) string {
	token := uuid.New().String()

	ss.mutex.Lock()
	ss.sessions[token] = SessionData{
		UserID:    userID,
		ExpiresAt: time.Now().Add(ss.timeout),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	ss.mutex.Unlock()

	ss.logger.Info("Created new session",
		zap.Uint("user_id", userID),
		zap.String("token", token[:8]+"..."),
		zap.String("ip_address", ipAddress),
	)
	return token
}

func (ss *SessionService) Validate(token string) (uint, bool) {
	ss.mutex.RLock()
	sd, exists := ss.sessions[token]
	ss.mutex.RUnlock()

	if !exists || time.Now().After(sd.ExpiresAt) {
		return 0, false
	}
	return sd.UserID, true
}

func (ss *SessionService) Destroy(token string) {
	ss.mutex.Lock()
	delete(ss.sessions, token)
	ss.mutex.Unlock()
}

func (ss *SessionService) Close() {
	close(ss.stopChan)
}

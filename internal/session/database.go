package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to postgres when dsn is set, otherwise to the sqlite file.
func Open(dsn, sqliteFile string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(sqliteFile)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// DBStore keeps sessions in a table; the cookie carries only an opaque ID.
type DBStore struct {
	db      *gorm.DB
	name    string
	profile string
	secure  bool
	log     *zap.Logger
	now     func() time.Time
}

func NewDBStore(db *gorm.DB, profile, cookieName string, secure bool, log *zap.Logger) (*DBStore, error) {
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sessions: %w", err)
	}
	return &DBStore{
		db:      db,
		name:    cookieName,
		profile: profile,
		secure:  secure,
		log:     log,
		now:     time.Now,
	}, nil
}

func (s *DBStore) Get(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return Session{}, ErrNoSession
	}

	var row models.Session
	err = s.db.WithContext(r.Context()).
		Where("id = ? AND profile = ?", cookie.Value, s.profile).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	if row.Expired(s.now()) {
		if err := s.db.WithContext(r.Context()).Delete(&models.Session{}, "id = ?", row.ID).Error; err != nil {
			s.log.Warn("failed to delete expired session", zap.String("profile", s.profile), zap.Error(err))
		}
		return Session{}, ErrSessionExpired
	}
	return Session{IDToken: row.IDToken, ExpiresAt: row.ExpiresAt}, nil
}

func (s *DBStore) Save(w http.ResponseWriter, sess Session) error {
	row := models.Session{
		ID:        uuid.NewString(),
		Profile:   s.profile,
		IDToken:   sess.IDToken,
		ExpiresAt: sess.ExpiresAt,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	http.SetCookie(w, newCookie(s.name, row.ID, row.ExpiresAt, s.secure))
	return nil
}

func (s *DBStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, expiredCookie(s.name, s.secure))

	cookie, err := r.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return nil
	}
	if err := s.db.WithContext(r.Context()).Delete(&models.Session{}, "id = ?", cookie.Value).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and returns the count.
// Sessions without an expiry are kept, matching models.Session.Expired.
func (s *DBStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("profile = ? AND expires_at > ? AND expires_at <= ?", s.profile, time.Time{}, s.now()).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/pagination"
)

// feedQuery selects a page of a user's notification feed, newest first.
type feedQuery struct {
	userID     uuid.UUID
	pageSize   int
	cursor     *pagination.Cursor
	unreadOnly bool
}

// feedPage is one page of feed rows plus the cursor for the next page. next
// is nil on the final page.
type feedPage struct {
	rows []models.Notification
	next *pagination.Cursor
}

// Repository persists notification rows and reads back the per-user feed.
// MarkRead reports gorm.ErrRecordNotFound when the notification does not
// belong to the user; marking an already-read row is a no-op.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListPage(ctx context.Context, q feedQuery) (feedPage, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *repositoryImpl) ListPage(ctx context.Context, q feedQuery) (feedPage, error) {
	pageSize := pagination.NormalizeLimit(q.pageSize)

	tx := r.db.WithContext(ctx).Where("user_id = ?", q.userID)
	if q.unreadOnly {
		tx = tx.Where("read_at IS NULL")
	}
	if q.cursor != nil {
		tx = tx.Where("(created_at, id) < (?, ?)", q.cursor.CreatedAt, q.cursor.ID)
	}

	// One extra row decides whether another page exists.
	var rows []models.Notification
	err := tx.Order("created_at DESC, id DESC").Limit(pageSize + 1).Find(&rows).Error
	if err != nil {
		return feedPage{}, err
	}

	page := feedPage{rows: rows}
	if len(rows) > pageSize {
		page.rows = rows[:pageSize]
		// Cursor points at the last row handed out; the next query's strict
		// (created_at, id) < comparison resumes right after it.
		last := page.rows[pageSize-1]
		page.next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, nil
}

func (r *repositoryImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		UpdateColumn("read_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Zero rows touched: either the row was already read (fine) or it is not
	// this user's notification at all.
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		UpdateColumn("read_at", now)
	return res.RowsAffected, res.Error
}

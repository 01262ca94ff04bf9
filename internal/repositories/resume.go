package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobportal/resume-screener/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
	ClaimForIndexing(id uuid.UUID) (bool, error)
	MarkIndexed(id uuid.UUID) error
	MarkIndexFailed(id uuid.UUID, errorMsg string) error
	FindPendingIndex(limit int) ([]models.Resume, error)
	RequeueStaleIndexing(olderThan time.Duration) (int64, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// ClaimForIndexing moves a pending resume to the indexing state. It reports
// false when another worker already claimed it or it is no longer pending.
func (r *resumeRepository) ClaimForIndexing(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.Resume{}).
		Where("id = ? AND index_status = ?", id, models.IndexPending).
		Updates(map[string]interface{}{
			"index_status": models.IndexRunning,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim resume: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *resumeRepository) MarkIndexed(id uuid.UUID) error {
	result := r.db.Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"index_status": models.IndexComplete,
			"index_error":  nil,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update index status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *resumeRepository) MarkIndexFailed(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"index_status": models.IndexFailed,
			"index_error":  errorMsg,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update index error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *resumeRepository) FindPendingIndex(limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.
		Select("id", "index_status", "created_at").
		Where("index_status = ?", models.IndexPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&resumes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending resumes: %w", err)
	}

	return resumes, nil
}

// RequeueStaleIndexing returns resumes stuck in the indexing state for longer
// than olderThan to pending, so a crashed or interrupted run is retried.
func (r *resumeRepository) RequeueStaleIndexing(olderThan time.Duration) (int64, error) {
	result := r.db.Model(&models.Resume{}).
		Where("index_status = ? AND updated_at < ?", models.IndexRunning, time.Now().Add(-olderThan)).
		Updates(map[string]interface{}{
			"index_status": models.IndexPending,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue stale resumes: %w", result.Error)
	}

	return result.RowsAffected, nil
}

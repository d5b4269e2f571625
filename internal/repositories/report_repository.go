package repositories

import (
	"github.com/bantaybuddy/backend/internal/models"
	"gorm.io/gorm"
)

// ReportRepository defines the interface for moderation report records
type ReportRepository interface {
	CreateReport(report *models.Report) error
	GetByPostID(postID string) ([]models.Report, error)
	CountByPostID(postID string) (int64, error)
	HasReported(postID, reporterUID string) (bool, error)
}

type postgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a ReportRepository backed by PostgreSQL
func NewPostgresReportRepository(db *gorm.DB) ReportRepository {
	return &postgresReportRepository{db: db}
}

func (r *postgresReportRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *postgresReportRepository) GetByPostID(postID string) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *postgresReportRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *postgresReportRepository) HasReported(postID, reporterUID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Where("post_id = ? AND reporter_uid = ?", postID, reporterUID).Count(&count).Error
	return count > 0, err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cfs-facility/rapportini-service/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Insert(ctx context.Context, report model.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO reports (id, technician_name, location, description, report_date, work_type, intervention_hours, travel_hours, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, report.ID, report.TechnicianName, report.Location, report.Description,
			report.Date, string(report.WorkType), report.InterventionHours,
			report.TravelHours, report.CreatedAt).Error; err != nil {
			return err
		}
		for i, photo := range report.Photos {
			if err := tx.Exec(`
				INSERT INTO report_photos (report_id, position, content)
				VALUES (?, ?, ?)
			`, report.ID, i, photo).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM reports WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByDate returns the reports of one technician/day in insertion order,
// photos included.
func (r *ReportRepository) ListByDate(ctx context.Context, technician, date string) ([]model.Report, error) {
	var rows []model.Report
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			technician_name,
			location,
			description,
			to_char(report_date, 'YYYY-MM-DD') AS date,
			work_type,
			intervention_hours,
			travel_hours,
			created_at
		FROM reports
		WHERE technician_name = ? AND report_date = ?
		ORDER BY created_at ASC
	`, technician, date).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		photos, err := r.listPhotos(ctx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		rows[i].Photos = photos
	}
	return rows, nil
}

func (r *ReportRepository) listPhotos(ctx context.Context, reportID uuid.UUID) ([][]byte, error) {
	var photos [][]byte
	if err := r.db.WithContext(ctx).Raw(`
		SELECT content
		FROM report_photos
		WHERE report_id = ?
		ORDER BY position ASC
	`, reportID).Scan(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

// ListDayGroups returns one row per date that has reports for the
// technician, newest first. Lifecycle flags are merged in by the service.
func (r *ReportRepository) ListDayGroups(ctx context.Context, technician string) ([]model.DayGroup, error) {
	var rows []model.DayGroup
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(report_date, 'YYYY-MM-DD') AS date,
			COUNT(*) AS report_count
		FROM reports
		WHERE technician_name = ?
		GROUP BY report_date
		ORDER BY report_date DESC
	`, technician).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByMonth returns every report of the technician within one calendar
// month (YYYY-MM), ordered by date then insertion, for the recap export.
func (r *ReportRepository) ListByMonth(ctx context.Context, technician, month string) ([]model.Report, error) {
	var rows []model.Report
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			technician_name,
			location,
			description,
			to_char(report_date, 'YYYY-MM-DD') AS date,
			work_type,
			intervention_hours,
			travel_hours,
			created_at
		FROM reports
		WHERE technician_name = ? AND to_char(report_date, 'YYYY-MM') = ?
		ORDER BY report_date ASC, created_at ASC
	`, technician, month).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

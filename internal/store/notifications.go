package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kubesentry-dev/kubesentry/internal/models"
)

// NotificationInput carries the caller-supplied fields for a dispatched alert.
type NotificationInput struct {
	IncidentID  string
	Channel     string
	Destination string
	Severity    string
	Error       string
}

// NotificationFilters narrows ListNotifications; zero values mean no
// constraint.
type NotificationFilters struct {
	IncidentID string
	Channel    string
	Status     string
}

func (in NotificationInput) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"incident_id", in.IncidentID},
		{"channel", in.Channel},
		{"destination", in.Destination},
		{"severity", in.Severity},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	return nil
}

// CreateNotification records a dispatched alert. The referenced incident must
// exist; the existence check and the insert share one transaction so a
// concurrent incident delete cannot leave an orphan.
func (s *Store) CreateNotification(input NotificationInput) (*models.Notification, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var notification models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Incident{}).Where("id = ?", input.IncidentID).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup incident: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}

		notification = models.Notification{
			IncidentID:  input.IncidentID,
			Channel:     input.Channel,
			Destination: input.Destination,
			SentAt:      time.Now().UTC(),
			Severity:    input.Severity,
			Status:      "sent",
			Error:       input.Error,
		}

		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &notification, nil
}

func (s *Store) GetNotification(id uint) (*models.Notification, error) {
	var notification models.Notification

	if err := s.db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}

	return &notification, nil
}

// ListNotifications returns every notification matching the conjunction of the
// given filters, in insertion order.
func (s *Store) ListNotifications(filters NotificationFilters) ([]models.Notification, error) {
	query := s.db.Model(&models.Notification{})

	if filters.IncidentID != "" {
		query = query.Where("incident_id = ?", filters.IncidentID)
	}
	if filters.Channel != "" {
		query = query.Where("channel = ?", filters.Channel)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var notifications []models.Notification
	if err := query.Order("id ASC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

func (s *Store) DeleteNotification(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&models.Notification{})

	if result.Error != nil {
		return fmt.Errorf("delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kubesentry-dev/kubesentry/internal/models"
)

// IncidentInput carries the caller-supplied fields for a detection.
type IncidentInput struct {
	Cluster         string
	Namespace       string
	ResourceType    string
	ResourceName    string
	IssueType       string
	Severity        string
	Description     string
	Logs            models.RawDocument
	Events          models.RawDocument
	Diagnosis       string
	Recommendations string
}

// IncidentUpdate is a partial update; nil fields are left untouched. The
// location fields (cluster, namespace, resource) are immutable after creation.
type IncidentUpdate struct {
	IssueType       *string
	Severity        *string
	Description     *string
	Logs            *models.RawDocument
	Events          *models.RawDocument
	Diagnosis       *string
	Recommendations *string
	LastDetected    *time.Time
	OccurrenceCount *int
	Resolved        *bool
	ResolvedAt      *time.Time
	ResolutionNotes *string
}

// IncidentFilters narrows ListIncidents; zero values mean no constraint.
type IncidentFilters struct {
	Cluster      string
	Namespace    string
	ResourceType string
	IssueType    string
	Resolved     *bool
}

// incidentSortColumns is the allow-list of ORDER BY targets; anything else is
// rejected before it reaches the query builder.
var incidentSortColumns = map[string]string{
	"id":               "id",
	"cluster":          "cluster",
	"namespace":        "namespace",
	"issue_type":       "issue_type",
	"severity":         "severity",
	"first_detected":   "first_detected",
	"last_detected":    "last_detected",
	"occurrence_count": "occurrence_count",
	"resolved":         "resolved",
}

// DefaultIncidentSort is used when the caller does not name a sort field.
const DefaultIncidentSort = "last_detected"

func (in IncidentInput) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"cluster", in.Cluster},
		{"namespace", in.Namespace},
		{"resource_type", in.ResourceType},
		{"resource_name", in.ResourceName},
		{"issue_type", in.IssueType},
		{"severity", in.Severity},
		{"description", in.Description},
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

// CreateIncident records a detection. A detection whose dedup tuple matches an
// existing incident bumps that incident's occurrence count and last_detected
// instead of inserting a duplicate; created reports whether a new row was
// written.
func (s *Store) CreateIncident(input IncidentInput) (*models.Incident, bool, error) {
	if err := input.validate(); err != nil {
		return nil, false, err
	}

	var incident models.Incident
	created := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(
			"cluster = ? AND namespace = ? AND resource_type = ? AND resource_name = ? AND issue_type = ?",
			input.Cluster, input.Namespace, input.ResourceType, input.ResourceName, input.IssueType,
		).First(&incident).Error

		if err == nil {
			return recordOccurrence(tx, &incident, input)
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup incident: %w", err)
		}

		now := time.Now().UTC()
		incident = models.Incident{
			ID:              uuid.NewString(),
			Cluster:         input.Cluster,
			Namespace:       input.Namespace,
			ResourceType:    input.ResourceType,
			ResourceName:    input.ResourceName,
			IssueType:       input.IssueType,
			Severity:        input.Severity,
			Description:     input.Description,
			Logs:            input.Logs,
			Events:          input.Events,
			Diagnosis:       input.Diagnosis,
			Recommendations: input.Recommendations,
			FirstDetected:   now,
			LastDetected:    now,
			OccurrenceCount: 1,
			Resolved:        false,
		}

		if err := tx.Create(&incident).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race against a concurrent detection of the same issue.
				return ErrConflict
			}
			return fmt.Errorf("create incident: %w", err)
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &incident, created, nil
}

// recordOccurrence folds a repeat detection into the existing incident row.
func recordOccurrence(tx *gorm.DB, incident *models.Incident, input IncidentInput) error {
	incident.OccurrenceCount++
	incident.LastDetected = time.Now().UTC()
	incident.Severity = input.Severity
	incident.Description = input.Description

	if input.Logs != "" {
		incident.Logs = input.Logs
	}
	if input.Events != "" {
		incident.Events = input.Events
	}

	if err := tx.Save(incident).Error; err != nil {
		return fmt.Errorf("record occurrence: %w", err)
	}

	return nil
}

func (s *Store) GetIncident(id string) (*models.Incident, error) {
	var incident models.Incident

	if err := s.db.First(&incident, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}

	return &incident, nil
}

// ListIncidents returns every incident matching the conjunction of the given
// filters, ordered by sortBy (descending unless sortDesc is false).
func (s *Store) ListIncidents(filters IncidentFilters, sortBy string, sortDesc bool) ([]models.Incident, error) {
	if sortBy == "" {
		sortBy = DefaultIncidentSort
	}

	column, ok := incidentSortColumns[sortBy]
	if !ok {
		return nil, &ValidationError{Fields: []string{"sort_by"}}
	}

	query := s.db.Model(&models.Incident{})

	if filters.Cluster != "" {
		query = query.Where("cluster = ?", filters.Cluster)
	}
	if filters.Namespace != "" {
		query = query.Where("namespace = ?", filters.Namespace)
	}
	if filters.ResourceType != "" {
		query = query.Where("resource_type = ?", filters.ResourceType)
	}
	if filters.IssueType != "" {
		query = query.Where("issue_type = ?", filters.IssueType)
	}
	if filters.Resolved != nil {
		query = query.Where("resolved = ?", *filters.Resolved)
	}

	direction := "DESC"
	if !sortDesc {
		direction = "ASC"
	}

	var incidents []models.Incident
	if err := query.Order(column + " " + direction).Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	return incidents, nil
}

// UpdateIncident applies the non-nil fields of update and returns the result.
// Setting Resolved without an explicit ResolvedAt stamps the current time;
// clearing Resolved drops the timestamp.
func (s *Store) UpdateIncident(id string, update IncidentUpdate) (*models.Incident, error) {
	var incident models.Incident

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&incident, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get incident: %w", err)
		}

		update.apply(&incident)

		if err := tx.Save(&incident).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("update incident: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &incident, nil
}

func (u IncidentUpdate) apply(incident *models.Incident) {
	if u.IssueType != nil {
		incident.IssueType = *u.IssueType
	}
	if u.Severity != nil {
		incident.Severity = *u.Severity
	}
	if u.Description != nil {
		incident.Description = *u.Description
	}
	if u.Logs != nil {
		incident.Logs = *u.Logs
	}
	if u.Events != nil {
		incident.Events = *u.Events
	}
	if u.Diagnosis != nil {
		incident.Diagnosis = *u.Diagnosis
	}
	if u.Recommendations != nil {
		incident.Recommendations = *u.Recommendations
	}
	if u.LastDetected != nil {
		incident.LastDetected = *u.LastDetected
	}
	if u.OccurrenceCount != nil {
		incident.OccurrenceCount = *u.OccurrenceCount
	}
	if u.Resolved != nil {
		incident.Resolved = *u.Resolved
		if *u.Resolved {
			if u.ResolvedAt == nil && incident.ResolvedAt == nil {
				now := time.Now().UTC()
				incident.ResolvedAt = &now
			}
		} else {
			incident.ResolvedAt = nil
		}
	}
	if u.ResolvedAt != nil {
		incident.ResolvedAt = u.ResolvedAt
	}
	if u.ResolutionNotes != nil {
		incident.ResolutionNotes = *u.ResolutionNotes
	}
}

// DeleteIncident removes the incident and every notification that references
// it. The schema cascades as well; deleting the children here keeps the
// behavior identical across database engines.
func (s *Store) DeleteIncident(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var incident models.Incident

		if err := tx.First(&incident, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get incident: %w", err)
		}

		if err := tx.Where("incident_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}

		if err := tx.Delete(&incident).Error; err != nil {
			return fmt.Errorf("delete incident: %w", err)
		}

		return nil
	})
}

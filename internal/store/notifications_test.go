package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateNotification_Defaults(t *testing.T) {
	s := newTestStore(t)

	incident, _, err := s.CreateIncident(crashLoopInput())
	require.NoError(t, err)

	notification, err := s.CreateNotification(NotificationInput{
		IncidentID:  incident.ID,
		Channel:     "slack",
		Destination: "#alerts",
		Severity:    "high",
	})
	require.NoError(t, err)

	require.NotZero(t, notification.ID)
	require.Equal(t, incident.ID, notification.IncidentID)
	require.Equal(t, "sent", notification.Status)
	require.False(t, notification.SentAt.IsZero())
	require.Empty(t, notification.Error)
}

func TestCreateNotification_MissingIncident(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateNotification(NotificationInput{
		IncidentID:  "c0ffee00-0000-0000-0000-000000000000",
		Channel:     "slack",
		Destination: "#alerts",
		Severity:    "high",
	})
	require.ErrorIs(t, err, ErrNotFound)

	// Nothing may be persisted on a failed create.
	notifications, err := s.ListNotifications(NotificationFilters{})
	require.NoError(t, err)
	require.Empty(t, notifications)
}

func TestCreateNotification_MissingFields(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateNotification(NotificationInput{Destination: "#alerts"})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, []string{"incident_id", "channel", "severity"}, validation.Fields)
}

func TestListNotifications_FiltersAndOrder(t *testing.T) {
	s := newTestStore(t)

	incident, _, err := s.CreateIncident(crashLoopInput())
	require.NoError(t, err)

	other := crashLoopInput()
	other.ResourceName = "web-9c"
	otherIncident, _, err := s.CreateIncident(other)
	require.NoError(t, err)

	for _, input := range []NotificationInput{
		{IncidentID: incident.ID, Channel: "slack", Destination: "#alerts", Severity: "high"},
		{IncidentID: incident.ID, Channel: "email", Destination: "oncall@example.com", Severity: "high"},
		{IncidentID: otherIncident.ID, Channel: "slack", Destination: "#alerts", Severity: "low"},
	} {
		_, err := s.CreateNotification(input)
		require.NoError(t, err)
	}

	all, err := s.ListNotifications(NotificationFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		require.Greater(t, all[i].ID, all[i-1].ID)
	}

	byIncident, err := s.ListNotifications(NotificationFilters{IncidentID: incident.ID})
	require.NoError(t, err)
	require.Len(t, byIncident, 2)

	slackForIncident, err := s.ListNotifications(NotificationFilters{
		IncidentID: incident.ID,
		Channel:    "slack",
	})
	require.NoError(t, err)
	require.Len(t, slackForIncident, 1)
	require.Equal(t, "#alerts", slackForIncident[0].Destination)

	sent, err := s.ListNotifications(NotificationFilters{Status: "sent"})
	require.NoError(t, err)
	require.Len(t, sent, 3)
}

func TestGetNotification_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetNotification(42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNotification(t *testing.T) {
	s := newTestStore(t)

	incident, _, err := s.CreateIncident(crashLoopInput())
	require.NoError(t, err)

	notification, err := s.CreateNotification(NotificationInput{
		IncidentID:  incident.ID,
		Channel:     "slack",
		Destination: "#alerts",
		Severity:    "high",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteNotification(notification.ID))

	_, err = s.GetNotification(notification.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.DeleteNotification(notification.ID), ErrNotFound)
}

package sos

import (
	"context"
	"time"

	"sos-service/internal/models"
)

type AlertView struct {
	ID                      string              `json:"id"`
	OwnerID                 string              `json:"owner_id"`
	OwnerUsername           string              `json:"owner_username,omitempty"`
	OwnerDisplayName        string              `json:"owner_display_name,omitempty"`
	OwnerProfession         string              `json:"owner_profession,omitempty"`
	OwnerAvatarURL          string              `json:"owner_avatar_url,omitempty"`
	Latitude                *float64            `json:"latitude,omitempty"`
	Longitude               *float64            `json:"longitude,omitempty"`
	Address                 *string             `json:"address,omitempty"`
	Category                models.Category     `json:"category"`
	Status                  models.AlertStatus  `json:"status"`
	Description             *string             `json:"description,omitempty"`
	CancelledByOwner        bool                `json:"cancelled_by_owner"`
	ResponseCount           int64               `json:"response_count"`
	CreatedAt               time.Time           `json:"created_at"`
	ResolvedAt              *time.Time          `json:"resolved_at,omitempty"`
	DistanceKm              *float64            `json:"distance_km,omitempty"`
	MapURL                  string              `json:"map_url,omitempty"`
	EmergencyContact        string              `json:"emergency_contact"`
	HasCurrentUserResponded bool                `json:"has_current_user_responded"`
	CurrentUserResponseType models.ResponseType `json:"current_user_response_type,omitempty"`
	IsCurrentUserAlertOwner bool                `json:"is_current_user_alert_owner"`
}

type ResponseView struct {
	ID                   string              `json:"id"`
	AlertID              string              `json:"alert_id"`
	ResponderID          string              `json:"responder_id"`
	ResponderUsername    string              `json:"responder_username,omitempty"`
	ResponderDisplayName string              `json:"responder_display_name,omitempty"`
	ResponderAvatarURL   string              `json:"responder_avatar_url,omitempty"`
	Type                 models.ResponseType `json:"response_type"`
	Message              *string             `json:"message,omitempty"`
	PointsAwarded        int64               `json:"points_awarded"`
	Confirmed            bool                `json:"confirmed"`
	ConfirmedAt          *time.Time          `json:"confirmed_at,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
}

// AlertViews projects alerts for viewerID, filling owner attributes and the viewer's own response.
func (s *sosService) AlertViews(ctx context.Context, viewerID string, alerts []*NearbyAlert) ([]*AlertView, error) {

	views := make([]*AlertView, 0, len(alerts))
	if len(alerts) == 0 {
		return views, nil
	}

	ownerIDs := make([]string, 0, len(alerts))
	alertIDs := make([]string, 0, len(alerts))
	for _, item := range alerts {
		ownerIDs = append(ownerIDs, item.Alert.OwnerID)
		alertIDs = append(alertIDs, item.Alert.ID)
	}

	owners, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	mine := make(map[string]models.ResponseType)
	if viewerID != "" {
		responses, err := s.repo.FindResponsesByResponder(ctx, viewerID, alertIDs...)
		if err != nil {
			return nil, err
		}
		for _, r := range responses {
			mine[r.AlertID] = r.Type
		}
	}

	now := s.now()
	for _, item := range alerts {
		a := item.Alert
		v := &AlertView{
			ID:                      a.ID,
			OwnerID:                 a.OwnerID,
			Latitude:                a.Latitude,
			Longitude:               a.Longitude,
			Address:                 a.Address,
			Category:                a.Category,
			Status:                  a.EffectiveStatus(now),
			Description:             a.Description,
			CancelledByOwner:        a.CancelledByOwner,
			ResponseCount:           a.ResponseCount,
			CreatedAt:               a.CreatedAt,
			ResolvedAt:              a.ResolvedAt,
			DistanceKm:              item.DistanceKm,
			EmergencyContact:        models.EmergencyContact(a.Category),
			IsCurrentUserAlertOwner: viewerID != "" && viewerID == a.OwnerID,
		}
		if pos := a.Position(); pos != nil {
			v.MapURL = models.MapLink(*pos)
		}
		if owner, ok := owners[a.OwnerID]; ok {
			v.OwnerUsername = owner.Username
			v.OwnerDisplayName = owner.DisplayName
			v.OwnerProfession = owner.Profession
			v.OwnerAvatarURL = owner.AvatarURL
		}
		if t, ok := mine[a.ID]; ok {
			v.HasCurrentUserResponded = true
			v.CurrentUserResponseType = t
		}
		views = append(views, v)
	}

	return views, nil
}

func (s *sosService) ResponseViews(ctx context.Context, responses []*models.Response) ([]*ResponseView, error) {

	views := make([]*ResponseView, 0, len(responses))
	if len(responses) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.ResponderID)
	}

	responders, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, r := range responses {
		v := &ResponseView{
			ID:            r.ID,
			AlertID:       r.AlertID,
			ResponderID:   r.ResponderID,
			Type:          r.Type,
			Message:       r.Message,
			PointsAwarded: r.PointsAwarded,
			Confirmed:     r.Confirmed,
			ConfirmedAt:   r.ConfirmedAt,
			CreatedAt:     r.CreatedAt,
		}
		if u, ok := responders[r.ResponderID]; ok {
			v.ResponderUsername = u.Username
			v.ResponderDisplayName = u.DisplayName
			v.ResponderAvatarURL = u.AvatarURL
		}
		views = append(views, v)
	}

	return views, nil
}

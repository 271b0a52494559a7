package sos

import "context"

type Badge string

const (
	BadgeGold   Badge = "GOLD"
	BadgeSilver Badge = "SILVER"
	BadgeBronze Badge = "BRONZE"
)

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Profession  string `json:"profession,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Points      int64  `json:"points"`
	Badge       Badge  `json:"badge,omitempty"`
}

func badgeFor(rank int) Badge {
	switch rank {
	case 1:
		return BadgeGold
	case 2:
		return BadgeSilver
	case 3:
		return BadgeBronze
	default:
		return ""
	}
}

// TopN ranks users by position in the directory's ordering (points desc, id asc).
func (s *sosService) TopN(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {

	if limit <= 0 {
		limit = s.leaderboardLimit
	}

	users, err := s.users.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(users))
	for i, u := range users {
		rank := i + 1
		entries = append(entries, &LeaderboardEntry{
			Rank:        rank,
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Profession:  u.Profession,
			AvatarURL:   u.AvatarURL,
			Points:      u.Points,
			Badge:       badgeFor(rank),
		})
	}

	return entries, nil
}

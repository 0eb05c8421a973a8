package remotestore

import (
	"context"
	"fmt"
)

// ReminderProfile is one account with a configured daily reminder, plus the
// notification targets registered for it.
type ReminderProfile struct {
	AccountID string
	Hour      int
	Minute    int
	Timezone  string
	Targets   []string
}

// AddReminderTarget registers a notification target (an email address or an
// opaque push endpoint) for the account.
func (s *Store) AddReminderTarget(ctx context.Context, accountID, target string) error {
	query := `
		INSERT INTO reminder_targets (account_id, target)
		VALUES ($1, $2)
		ON CONFLICT (account_id, target) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, accountID, target); err != nil {
		return fmt.Errorf("add reminder target: %w", err)
	}
	return nil
}

// DeleteReminderTarget prunes a dead target, typically after the transport
// reported it permanently gone.
func (s *Store) DeleteReminderTarget(ctx context.Context, accountID, target string) error {
	query := `DELETE FROM reminder_targets WHERE account_id = $1 AND target = $2`
	if _, err := s.db.ExecContext(ctx, query, accountID, target); err != nil {
		return fmt.Errorf("delete reminder target: %w", err)
	}
	return nil
}

// ListReminderProfiles returns every profile with a reminder time configured,
// with its targets. Accounts without targets fall back to their user email.
func (s *Store) ListReminderProfiles(ctx context.Context) ([]ReminderProfile, error) {
	query := `
		SELECT p.account_id, p.reminder_hour, p.reminder_minute, p.timezone,
		       COALESCE(rt.target, u.email, '')
		FROM profiles p
		LEFT JOIN reminder_targets rt ON rt.account_id = p.account_id
		LEFT JOIN users u ON u.id = p.account_id
		WHERE p.reminder_hour IS NOT NULL AND p.reminder_minute IS NOT NULL
		ORDER BY p.account_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reminder profiles: %w", err)
	}
	defer rows.Close()

	var profiles []ReminderProfile
	byAccount := make(map[string]int)

	for rows.Next() {
		var accountID, timezone, target string
		var hour, minute int
		if err := rows.Scan(&accountID, &hour, &minute, &timezone, &target); err != nil {
			return nil, fmt.Errorf("scan reminder profile: %w", err)
		}

		idx, ok := byAccount[accountID]
		if !ok {
			profiles = append(profiles, ReminderProfile{
				AccountID: accountID,
				Hour:      hour,
				Minute:    minute,
				Timezone:  timezone,
			})
			idx = len(profiles) - 1
			byAccount[accountID] = idx
		}
		if target != "" {
			profiles[idx].Targets = append(profiles[idx].Targets, target)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

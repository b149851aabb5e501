package postgre

import (
	"context"
	"fmt"

	"forge-relay/internal/model"
	"forge-relay/internal/subscription"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS gh_hooks (
	channel      TEXT    NOT NULL,
	repo_name    TEXT    NOT NULL,
	enabled      BOOLEAN NOT NULL DEFAULT TRUE,
	url_color    TEXT    NOT NULL DEFAULT '02',
	tag_color    TEXT    NOT NULL DEFAULT '06',
	repo_color   TEXT    NOT NULL DEFAULT '13',
	name_color   TEXT    NOT NULL DEFAULT '15',
	hash_color   TEXT    NOT NULL DEFAULT '14',
	branch_color TEXT    NOT NULL DEFAULT '06',
	PRIMARY KEY (channel, repo_name)
)`

const listEnabledSQL = `
SELECT channel, repo_name, enabled,
       url_color, tag_color, repo_color, name_color, hash_color, branch_color
  FROM gh_hooks
 WHERE repo_name = $1 AND enabled
 ORDER BY channel`

const upsertSQL = `
INSERT INTO gh_hooks (channel, repo_name, enabled,
                      url_color, tag_color, repo_color, name_color, hash_color, branch_color)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (channel, repo_name) DO UPDATE SET
	enabled      = EXCLUDED.enabled,
	url_color    = EXCLUDED.url_color,
	tag_color    = EXCLUDED.tag_color,
	repo_color   = EXCLUDED.repo_color,
	name_color   = EXCLUDED.name_color,
	hash_color   = EXCLUDED.hash_color,
	branch_color = EXCLUDED.branch_color`

func (r *implRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		r.l.Errorf(ctx, "postgre.subscription.EnsureSchema: %v", err)
		return fmt.Errorf("%w: %v", subscription.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *implRepository) ListEnabled(ctx context.Context, repoFullName string) ([]model.Subscription, error) {
	rows, err := r.db.Query(ctx, listEnabledSQL, subscription.Key(repoFullName))
	if err != nil {
		r.l.Errorf(ctx, "postgre.subscription.ListEnabled.Query: %v", err)
		return nil, fmt.Errorf("%w: %v", subscription.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		var s model.Subscription
		if err := rows.Scan(
			&s.Channel, &s.Repository, &s.Enabled,
			&s.Colors.URL, &s.Colors.Tag, &s.Colors.Repo,
			&s.Colors.Name, &s.Colors.Hash, &s.Colors.Branch,
		); err != nil {
			r.l.Errorf(ctx, "postgre.subscription.ListEnabled.Scan: %v", err)
			return nil, fmt.Errorf("%w: %v", subscription.ErrStoreUnavailable, err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "postgre.subscription.ListEnabled.Rows: %v", err)
		return nil, fmt.Errorf("%w: %v", subscription.ErrStoreUnavailable, err)
	}
	return subs, nil
}

func (r *implRepository) Upsert(ctx context.Context, sub model.Subscription) error {
	if err := subscription.Validate(sub); err != nil {
		return err
	}
	c := subscription.WithDefaults(sub.Colors)
	_, err := r.db.Exec(ctx, upsertSQL,
		sub.Channel, subscription.Key(sub.Repository), sub.Enabled,
		c.URL, c.Tag, c.Repo, c.Name, c.Hash, c.Branch,
	)
	if err != nil {
		r.l.Errorf(ctx, "postgre.subscription.Upsert: %v", err)
		return fmt.Errorf("%w: %v", subscription.ErrStoreUnavailable, err)
	}
	return nil
}

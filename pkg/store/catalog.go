// pkg/store/catalog.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agents-registry/pkg/models"
)

// timeLayout is RFC3339 with fixed-width nanoseconds so that stored UTC
// timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const agentColumns = `id, name, description, author_name, current_version, tags, keywords,
	download_count, view_count, license, homepage, repository, readme, is_public, created_at, updated_at`

// UpsertAgent inserts or replaces a catalog entry. The publish flow proper
// lives outside this layer; this exists for seeding and the portal glue.
func (s *Store) UpsertAgent(ctx context.Context, agent *models.Agent) error {
	tagsJSON, err := json.Marshal(agent.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	keywordsJSON, err := json.Marshal(agent.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO agents
		(` + agentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		agent.ID,
		agent.Name,
		agent.Description,
		agent.AuthorName,
		agent.CurrentVersion,
		string(tagsJSON),
		string(keywordsJSON),
		agent.DownloadCount,
		agent.ViewCount,
		agent.License,
		agent.Homepage,
		agent.Repository,
		agent.Readme,
		agent.IsPublic,
		agent.CreatedAt.UTC().Format(timeLayout),
		agent.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert agent %s: %w", agent.Name, err)
	}
	return nil
}

// GetAgentByID retrieves a single catalog entry by id.
func (s *Store) GetAgentByID(ctx context.Context, id string) (*models.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	return scanAgentRow(row)
}

// GetAgentByName retrieves a single public catalog entry by name.
func (s *Store) GetAgentByName(ctx context.Context, name string) (*models.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE name = ? AND is_public = 1`, name)
	return scanAgentRow(row)
}

// IncrementCounter atomically bumps one popularity counter and returns the
// new value in the same statement. Two concurrent callers always land on
// two distinct increments; there is no read-modify-write window.
func (s *Store) IncrementCounter(ctx context.Context, id string, kind models.CounterKind) (uint64, error) {
	var query string
	switch kind {
	case models.CounterDownload:
		query = `UPDATE agents SET download_count = download_count + 1 WHERE id = ? RETURNING download_count`
	case models.CounterView:
		query = `UPDATE agents SET view_count = view_count + 1 WHERE id = ? RETURNING view_count`
	default:
		return 0, fmt.Errorf("%w: unknown counter kind %q", models.ErrInvalidArgument, kind)
	}

	var count uint64
	err := s.db.QueryRowContext(ctx, query, id).Scan(&count)
	if isNoRows(err) {
		return 0, fmt.Errorf("agent %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s counter for %s: %w", kind, id, err)
	}
	return count, nil
}

// SearchAgents runs a filtered, sorted, paginated catalog query. The query
// must already be normalized (clamped page/pageSize, validated sort key);
// every predicate is parameterized, nothing is spliced into the SQL text.
func (s *Store) SearchAgents(ctx context.Context, q models.SearchQuery) ([]models.Agent, uint64, error) {
	where, args := buildPredicates(q)

	countQuery := `SELECT COUNT(*) FROM agents WHERE ` + strings.Join(where, " AND ")
	var total uint64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	orderBy, orderArgs := buildOrdering(q)
	pageQuery := `SELECT ` + agentColumns + ` FROM agents WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`

	pageArgs := append(append(args, orderArgs...), q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := s.db.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to run search query: %w", err)
	}
	defer rows.Close()

	agents, err := scanAgents(rows)
	if err != nil {
		return nil, 0, err
	}
	return agents, total, nil
}

// buildPredicates maps the typed filter onto parameterized WHERE clauses
func buildPredicates(q models.SearchQuery) ([]string, []any) {
	where := []string{"is_public = 1"}
	var args []any

	if q.Text != "" {
		// Combined searchable field: name, description, author, tags, keywords
		where = append(where,
			`instr(lower(name || ' ' || description || ' ' || author_name || ' ' || tags || ' ' || keywords), ?) > 0`)
		args = append(args, strings.ToLower(q.Text))
	}

	if len(q.Tags) > 0 {
		placeholders := strings.Repeat("?,", len(q.Tags))
		placeholders = placeholders[:len(placeholders)-1]
		where = append(where,
			`EXISTS (SELECT 1 FROM json_each(agents.tags) WHERE json_each.value IN (`+placeholders+`))`)
		for _, tag := range q.Tags {
			args = append(args, tag)
		}
	}

	if q.Author != "" {
		where = append(where, `lower(author_name) = lower(?)`)
		args = append(args, q.Author)
	}

	return where, args
}

// buildOrdering maps the validated sort key onto an ORDER BY clause from a
// fixed whitelist. Ties always break by created_at DESC then id ASC so
// repeated identical queries return identical ordering.
func buildOrdering(q models.SearchQuery) (string, []any) {
	dir := "DESC"
	if q.Order == models.OrderAsc {
		dir = "ASC"
	}

	const tieBreak = ", created_at DESC, id ASC"

	switch q.Sort {
	case models.SortDownloads:
		return "download_count " + dir + tieBreak, nil
	case models.SortUpdatedAt:
		return "updated_at " + dir + tieBreak, nil
	case models.SortName:
		return "name COLLATE NOCASE " + dir + tieBreak, nil
	case models.SortRelevance:
		if q.Text == "" {
			// Relevance is meaningless without a text query
			return "created_at DESC, id ASC", nil
		}
		text := strings.ToLower(q.Text)
		rank := `(CASE WHEN instr(lower(name), ?) > 0 THEN 4 ELSE 0 END
			+ CASE WHEN instr(lower(tags || ' ' || keywords), ?) > 0 THEN 2 ELSE 0 END
			+ CASE WHEN instr(lower(description || ' ' || author_name), ?) > 0 THEN 1 ELSE 0 END)`
		return rank + " " + dir + tieBreak, []any{text, text, text}
	default: // models.SortCreatedAt
		return "created_at " + dir + ", id ASC", nil
	}
}

// TrendingCandidates returns every public entry with at least one download,
// the eligible set for trending score computation.
func (s *Store) TrendingCandidates(ctx context.Context) ([]models.Agent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE is_public = 1 AND download_count > 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending candidates: %w", err)
	}
	defer rows.Close()
	return scanAgents(rows)
}

// TopByDownloads returns the most-downloaded public entries. Used as the
// live fallback when the trending snapshot is cold or expired.
func (s *Store) TopByDownloads(ctx context.Context, limit int) ([]models.Agent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE is_public = 1
		 ORDER BY download_count DESC, created_at DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top downloads: %w", err)
	}
	defer rows.Close()
	return scanAgents(rows)
}

// CountAgents returns the number of public catalog entries.
func (s *Store) CountAgents(ctx context.Context) (uint64, error) {
	var n uint64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents WHERE is_public = 1`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count agents: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(sc rowScanner) (*models.Agent, error) {
	var agent models.Agent
	var tagsJSON, keywordsJSON string
	var createdAt, updatedAt string

	err := sc.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Description,
		&agent.AuthorName,
		&agent.CurrentVersion,
		&tagsJSON,
		&keywordsJSON,
		&agent.DownloadCount,
		&agent.ViewCount,
		&agent.License,
		&agent.Homepage,
		&agent.Repository,
		&agent.Readme,
		&agent.IsPublic,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &agent.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags for %s: %w", agent.Name, err)
	}
	if err := json.Unmarshal([]byte(keywordsJSON), &agent.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords for %s: %w", agent.Name, err)
	}

	if agent.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", agent.Name, err)
	}
	if agent.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for %s: %w", agent.Name, err)
	}

	return &agent, nil
}

func scanAgentRow(row *sql.Row) (*models.Agent, error) {
	agent, err := scanAgent(row)
	if isNoRows(err) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return agent, nil
}

func scanAgents(rows *sql.Rows) ([]models.Agent, error) {
	var agents []models.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent row: %w", err)
		}
		agents = append(agents, *agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agent rows: %w", err)
	}
	return agents, nil
}

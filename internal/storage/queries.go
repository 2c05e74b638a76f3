package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pable/go-lol-positions/internal/model"
)

// UpsertPlayer inserts or refreshes a player record.
func (db *DB) UpsertPlayer(p model.Player) error {
	if p.FetchedAt == "" {
		p.FetchedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := db.conn.Exec(`
		INSERT INTO players(puuid, game_name, tag_line, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(puuid) DO UPDATE SET
			game_name = excluded.game_name,
			tag_line = excluded.tag_line,
			fetched_at = excluded.fetched_at`,
		p.PUUID, p.GameName, p.TagLine, p.FetchedAt,
	)
	return err
}

// GetPlayerByRiotID looks up a stored player by game name and tag, ignoring case.
// Returns nil, nil when the player is unknown.
func (db *DB) GetPlayerByRiotID(gameName, tagLine string) (*model.Player, error) {
	var p model.Player
	err := db.conn.QueryRow(`
		SELECT puuid, game_name, tag_line, fetched_at
		FROM players
		WHERE game_name = ? COLLATE NOCASE AND tag_line = ? COLLATE NOCASE
		ORDER BY fetched_at DESC LIMIT 1`, gameName, tagLine).
		Scan(&p.PUUID, &p.GameName, &p.TagLine, &p.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns all stored players with their linked match counts.
func (db *DB) ListPlayers() ([]model.Player, error) {
	rows, err := db.conn.Query(`
		SELECT p.puuid, p.game_name, p.tag_line, p.fetched_at, COUNT(pm.match_id)
		FROM players p LEFT JOIN player_matches pm ON pm.puuid = p.puuid
		GROUP BY p.puuid
		ORDER BY p.game_name COLLATE NOCASE, p.tag_line COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.PUUID, &p.GameName, &p.TagLine, &p.FetchedAt, &p.Matches); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MatchExists returns true if a timeline for the match is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// StoredMatchIDs returns the ids of every stored timeline.
func (db *DB) StoredMatchIDs() ([]string, error) {
	rows, err := db.conn.Query("SELECT match_id FROM matches")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// InsertTimeline stores a raw timeline document compressed with zstd.
// Re-inserting a match updates it in place so existing links survive.
func (db *DB) InsertTimeline(matchID string, frameCount int, doc []byte) error {
	_, err := db.conn.Exec(`
		INSERT INTO matches(match_id, frame_count, fetched_at, timeline)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			frame_count = excluded.frame_count,
			fetched_at = excluded.fetched_at,
			timeline = excluded.timeline`,
		matchID, frameCount, time.Now().UTC().Format(time.RFC3339), compress(doc),
	)
	if err != nil {
		return fmt.Errorf("insert timeline %s: %w", matchID, err)
	}
	return nil
}

// GetTimeline returns the decompressed timeline document for a match.
func (db *DB) GetTimeline(matchID string) ([]byte, error) {
	var blob []byte
	err := db.conn.QueryRow("SELECT timeline FROM matches WHERE match_id = ?", matchID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("timeline %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return decompress(blob)
}

// GetTimelines returns the documents for matchIDs in the same order.
// Any missing match is an error.
func (db *DB) GetTimelines(matchIDs []string) ([][]byte, error) {
	out := make([][]byte, 0, len(matchIDs))
	for _, id := range matchIDs {
		doc, err := db.GetTimeline(id)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// LinkPlayerMatches records matchIDs, most recent first, as the player's
// history for one fetch run.
func (db *DB) LinkPlayerMatches(puuid string, matchIDs []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_matches(puuid, match_id, batch, ordinal)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	batch := time.Now().UnixNano()
	for i, id := range matchIDs {
		if _, err := stmt.Exec(puuid, id, batch, i); err != nil {
			return fmt.Errorf("link %s to %s: %w", id, puuid, err)
		}
	}
	return tx.Commit()
}

// PlayerMatchIDs returns up to limit linked match ids for a player, newest
// fetch run first. limit <= 0 returns all.
func (db *DB) PlayerMatchIDs(puuid string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT match_id FROM player_matches
		WHERE puuid = ?
		ORDER BY batch DESC, ordinal ASC
		LIMIT ?`, puuid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListMatches returns all stored match summaries, most recently fetched first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.match_id, m.frame_count, m.fetched_at, LENGTH(m.timeline), COUNT(pm.puuid)
		FROM matches m LEFT JOIN player_matches pm ON pm.match_id = m.match_id
		GROUP BY m.match_id
		ORDER BY m.fetched_at DESC, m.match_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.MatchID, &s.FrameCount, &s.FetchedAt, &s.SizeBytes, &s.Players); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplacePositions stores the position table of a player on one map,
// replacing any previous rows for that pair.
func (db *DB) ReplacePositions(puuid, mapName string, rows []model.PositionRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM positions WHERE puuid = ? AND map_name = ?", puuid, mapName); err != nil {
		return fmt.Errorf("clear positions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO positions(puuid, match_id, timestamp, map_name, x, y)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if r.PUUID != puuid {
			return fmt.Errorf("insert positions: row for %s in table of %s", r.PUUID, puuid)
		}
		if _, err := stmt.Exec(r.PUUID, r.MatchID, r.Timestamp, mapName, r.X, r.Y); err != nil {
			return fmt.Errorf("insert position %s@%d: %w", r.MatchID, r.Timestamp, err)
		}
	}
	return tx.Commit()
}

// GetPositions returns the stored position table of a player on one map,
// ordered by match id then timestamp.
func (db *DB) GetPositions(puuid, mapName string) ([]model.PositionRow, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, timestamp, x, y FROM positions
		WHERE puuid = ? AND map_name = ?
		ORDER BY match_id, timestamp`, puuid, mapName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PositionRow
	for rows.Next() {
		r := model.PositionRow{PUUID: puuid}
		if err := rows.Scan(&r.MatchID, &r.Timestamp, &r.X, &r.Y); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		if len(t) > 32 {
			return fmt.Sprintf("<blob %d bytes>", len(t))
		}
		return strings.ToValidUTF8(string(t), "?")
	case float64:
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprint(t)
	}
}

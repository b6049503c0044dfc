package mysql

import "fmt"

type queries struct {
	insert        string
	selectDue     string
	markAttempt   string
	markDelivered string
	markRetry     string
	markAbandoned string
	cancel        string
	exists        string
	release       string
	recover       string
	countPending  string
}

func newQueries(table string) queries {
	cols := "id, slot, body, attempt_count, created_at, next_attempt_at"

	return queries{
		insert: fmt.Sprintf(
			"INSERT INTO %s (id, slot, body, created_at, next_attempt_at) VALUES (?, ?, ?, ?, ?)",
			table,
		),
		selectDue: fmt.Sprintf(
			"SELECT %s FROM %s WHERE status = ? AND next_attempt_at <= ? "+
				"ORDER BY next_attempt_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED",
			cols,
			table,
		),
		markAttempt: fmt.Sprintf(
			"UPDATE %s SET status = ? WHERE id = ? AND status = ?",
			table,
		),
		markDelivered: fmt.Sprintf(
			"UPDATE %s SET status = ?, delivered_at = ?, last_error = NULL WHERE id = ? AND status = ?",
			table,
		),
		markRetry: fmt.Sprintf(
			"UPDATE %s SET status = ?, attempt_count = ?, next_attempt_at = ?, last_error = ? "+
				"WHERE id = ? AND status = ?",
			table,
		),
		markAbandoned: fmt.Sprintf(
			"UPDATE %s SET status = ?, attempt_count = attempt_count + 1, last_error = ? "+
				"WHERE id = ? AND status = ?",
			table,
		),
		cancel: fmt.Sprintf(
			"UPDATE %s SET status = ?, last_error = ? WHERE id = ? AND status IN (?, ?)",
			table,
		),
		exists: fmt.Sprintf(
			"SELECT 1 FROM %s WHERE id = ?",
			table,
		),
		release: fmt.Sprintf(
			"UPDATE %s SET status = ? WHERE id = ? AND status = ?",
			table,
		),
		recover: fmt.Sprintf(
			"UPDATE %s SET status = ? WHERE status = ?",
			table,
		),
		countPending: fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE status = ?",
			table,
		),
	}
}

package mysql

const insertActivitySQL = `
INSERT INTO dashboard_activity
  (id, resource, action, target_ids, outcome, detail, request_id, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; id breaks ties between rows written in the same millisecond.
const listActivitySQL = `
SELECT
  id,
  resource,
  action,
  target_ids,
  outcome,
  detail,
  request_id,
  created_at
FROM dashboard_activity
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

const countActivitySQL = `SELECT COUNT(*) FROM dashboard_activity`

package postgres

const insertSubscriptionSQL = `
INSERT INTO webhook_subscriptions (id, url, secret, enabled, events, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const getSubscriptionSQL = `
SELECT id, url, secret, enabled, events, created_at, updated_at
FROM webhook_subscriptions WHERE id = $1
`

const updateSubscriptionSQL = `
UPDATE webhook_subscriptions
SET url = $2, secret = $3, enabled = $4, events = $5, updated_at = $6
WHERE id = $1
`

const deleteSubscriptionSQL = `DELETE FROM webhook_subscriptions WHERE id = $1`

const listSubscriptionsSQL = `
SELECT id, url, secret, enabled, events, created_at, updated_at
FROM webhook_subscriptions ORDER BY created_at DESC
`

const listEnabledSubscriptionsForEventTypeSQL = `
SELECT id, url, secret, enabled, events, created_at, updated_at
FROM webhook_subscriptions
WHERE enabled = TRUE AND events LIKE '%' || $1 || '%'
`

const insertOutboxEventSQL = `
INSERT INTO outbox_events (id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4)
`

const getOutboxEventSQL = `
SELECT id, event_type, payload, created_at
FROM outbox_events WHERE id = $1
`

const listOutboxBatchSQL = `
SELECT id, event_type, payload, created_at
FROM outbox_events ORDER BY created_at ASC LIMIT $1
`

const insertDeliveryAttemptSQL = `
INSERT INTO delivery_attempts (
  id, event_id, subscription_id, attempt_number, status,
  http_status_code, response_body, error_message, next_retry_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const updateDeliveryAttemptSQL = `
UPDATE delivery_attempts
SET status = $2, http_status_code = $3, response_body = $4,
    error_message = $5, next_retry_at = $6
WHERE id = $1
`

const listAttemptsForPairSQL = `
SELECT id, event_id, subscription_id, attempt_number, status,
       http_status_code, response_body, error_message, next_retry_at, created_at
FROM delivery_attempts
WHERE event_id = $1 AND subscription_id = $2
ORDER BY attempt_number ASC
`

const listAttemptsForPairForUpdateSQL = listAttemptsForPairSQL + `
FOR UPDATE
`

const listAttemptsForEventSQL = `
SELECT id, event_id, subscription_id, attempt_number, status,
       http_status_code, response_body, error_message, next_retry_at, created_at
FROM delivery_attempts
WHERE event_id = $1
ORDER BY created_at ASC
`

const insertDeadLetterSQL = `
INSERT INTO dead_letters (id, event_id, subscription_id, last_error, total_attempts, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

const getDeadLetterByIDSQL = `
SELECT id, event_id, subscription_id, last_error, total_attempts, created_at
FROM dead_letters WHERE id = $1
`

const getDeadLetterForPairSQL = `
SELECT id, event_id, subscription_id, last_error, total_attempts, created_at
FROM dead_letters WHERE event_id = $1 AND subscription_id = $2
`

const deleteDeadLetterSQL = `DELETE FROM dead_letters WHERE id = $1`

// Package db implements the persistence layer over database/sql. The same
// store runs against the bundled sqlite driver for local use and lib/pq for
// a hosted Postgres.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tacology/feedback/internal/models"
	"github.com/tacology/feedback/internal/services"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Store struct {
	db     *sql.DB
	driver string
}

// Open connects with the named driver and applies driver-specific setup.
func Open(driver, dsn string) (*sql.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		pragmas := []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		}
		for _, stmt := range pragmas {
			if _, err := conn.Exec(stmt); err != nil {
				return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
			}
		}
	}
	return conn, nil
}

func New(conn *sql.DB, driver string) (*Store, error) {
	if conn == nil {
		return nil, fmt.Errorf("nil db")
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	return &Store{db: conn, driver: driver}, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func encodeOptions(o models.QuestionOptions) (sql.NullString, error) {
	if len(o.Labels) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeOptions(raw sql.NullString) models.QuestionOptions {
	var o models.QuestionOptions
	if raw.Valid && raw.String != "" {
		_ = json.Unmarshal([]byte(raw.String), &o)
	}
	return o
}

// responseFilterClauses compiles the response-level filter into WHERE
// fragments on the given table alias. Both window bounds are inclusive; the
// "missing" buckets compile to IS NULL so they never match real buckets.
func responseFilterClauses(f services.Filter, alias string) ([]string, []any) {
	var conds []string
	var args []any
	if f.From != nil {
		conds = append(conds, alias+".created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, alias+".created_at <= ?")
		args = append(args, *f.To)
	}
	if f.Location != "" {
		conds = append(conds, alias+".location = ?")
		args = append(args, string(f.Location))
	}
	switch f.Sentiment {
	case models.SentimentNegative:
		conds = append(conds, alias+".sentiment_score < ?")
		args = append(args, models.SentimentNegativeBelow)
	case models.SentimentPositive:
		conds = append(conds, alias+".sentiment_score > ?")
		args = append(args, models.SentimentPositiveAbove)
	case models.SentimentNeutral:
		conds = append(conds, alias+".sentiment_score >= ? AND "+alias+".sentiment_score <= ?")
		args = append(args, models.SentimentNegativeBelow, models.SentimentPositiveAbove)
	}
	switch f.NPSBucket {
	case "":
	case models.BucketMissing:
		conds = append(conds, alias+".nps_bucket IS NULL")
	default:
		conds = append(conds, alias+".nps_bucket = ?")
		args = append(args, f.NPSBucket)
	}
	return conds, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// --- responses ---

const responseColumns = "id, customer_id, customer_name, customer_email, location, created_at, completed, nps_bucket, sentiment_score"

func scanResponse(row interface{ Scan(...any) error }) (*models.SurveyResponse, error) {
	var (
		r                models.SurveyResponse
		customerID, name sql.NullString
		email, npsBucket sql.NullString
		completed        int64
		sentiment        sql.NullFloat64
		location         string
	)
	err := row.Scan(&r.ID, &customerID, &name, &email, &location, &r.CreatedAt, &completed, &npsBucket, &sentiment)
	if err != nil {
		return nil, err
	}
	r.CustomerID = customerID.String
	r.CustomerName = name.String
	r.CustomerEmail = email.String
	r.Location = models.Location(location)
	r.Completed = completed != 0
	r.NPSBucket = npsBucket.String
	r.SentimentScore = fromNullFloat(sentiment)
	return &r, nil
}

func (s *Store) ListResponses(f services.Filter) ([]*models.SurveyResponse, error) {
	return s.listResponses(f, 0)
}

// ListRecentResponses bounds the listing in SQL so exports never load the
// whole table.
func (s *Store) ListRecentResponses(f services.Filter, limit int) ([]*models.SurveyResponse, error) {
	return s.listResponses(f, limit)
}

func (s *Store) listResponses(f services.Filter, limit int) ([]*models.SurveyResponse, error) {
	conds, args := responseFilterClauses(f, "r")
	query := "SELECT " + aliased(responseColumns, "r") + " FROM survey_responses r" +
		whereClause(conds) + " ORDER BY r.created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []*models.SurveyResponse
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func aliased(columns, alias string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func (s *Store) InsertResponse(r *models.SurveyResponse) error {
	query := `INSERT INTO survey_responses (` + responseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(s.rebind(query),
		r.ID, toNullString(r.CustomerID), toNullString(r.CustomerName), toNullString(r.CustomerEmail),
		string(r.Location), r.CreatedAt, boolToInt64(r.Completed), toNullString(r.NPSBucket),
		toNullFloat(r.SentimentScore),
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// --- answers ---

func (s *Store) InsertAnswers(rows []*models.Answer) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin answers tx: %w", err)
	}
	query := s.rebind(`INSERT INTO survey_answers (id, response_id, question_id, value_text, value_number, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	for _, a := range rows {
		if _, err := tx.Exec(query, a.ID, a.ResponseID, a.QuestionID, toNullString(a.ValueText), toNullFloat(a.ValueNumber), a.CreatedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert answer: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit answers: %w", err)
	}
	return nil
}

func (s *Store) ListAnswersByQuestion(f services.Filter) ([]*models.Answer, error) {
	conds, args := responseFilterClauses(f, "r")
	conds = append([]string{"a.question_id = ?"}, conds...)
	args = append([]any{f.QuestionID}, args...)

	query := `SELECT a.id, a.response_id, a.question_id, a.value_text, a.value_number, a.created_at
		FROM survey_answers a
		JOIN survey_responses r ON r.id = a.response_id` +
		whereClause(conds) + " ORDER BY a.created_at DESC"

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []*models.Answer
	for rows.Next() {
		var (
			a         models.Answer
			valueText sql.NullString
			valueNum  sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &a.ResponseID, &a.QuestionID, &valueText, &valueNum, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		a.ValueText = valueText.String
		a.ValueNumber = fromNullFloat(valueNum)
		out = append(out, &a)
	}
	return out, rows.Err()
}

var answerSortColumns = map[string]string{
	"answer":    "a.value_text",
	"sentiment": "r.sentiment_score",
	"date":      "r.created_at",
}

func (s *Store) ListAnswerRows(q services.AnswerQuery) ([]*services.AnswerRow, int, error) {
	conds, args := responseFilterClauses(q.Filter, "r")
	conds = append([]string{"a.question_id = ?"}, conds...)
	args = append([]any{q.QuestionID}, args...)
	if len(q.IDs) > 0 {
		conds = append(conds, "a.id IN ("+inPlaceholders(len(q.IDs))+")")
		for _, id := range q.IDs {
			args = append(args, id)
		}
	}

	joins := ` FROM survey_answers a
		JOIN questions qs ON qs.id = a.question_id
		JOIN survey_responses r ON r.id = a.response_id`

	var total int
	countQuery := "SELECT COUNT(*)" + joins + whereClause(conds)
	if err := s.db.QueryRow(s.rebind(countQuery), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count answers: %w", err)
	}

	sortCol, ok := answerSortColumns[q.SortBy]
	if !ok {
		sortCol = "r.created_at"
	}
	dir := "DESC"
	if q.SortDir == "asc" {
		dir = "ASC"
	}

	query := `SELECT a.id, a.value_text, a.value_number, a.created_at,
		qs.id, qs.code, qs.prompt, qs.question_type, qs.options,
		r.id, r.customer_name, r.customer_email, r.location, r.created_at, r.sentiment_score, r.nps_bucket` +
		joins + whereClause(conds) +
		fmt.Sprintf(" ORDER BY %s %s, a.id %s LIMIT ? OFFSET ?", sortCol, dir, dir)
	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list answer rows: %w", err)
	}
	defer rows.Close()

	var out []*services.AnswerRow
	for rows.Next() {
		var (
			row       services.AnswerRow
			valueText sql.NullString
			valueNum  sql.NullFloat64
			options   sql.NullString
			qType     string
			custName  sql.NullString
			custEmail sql.NullString
			location  string
			sentiment sql.NullFloat64
			npsBucket sql.NullString
		)
		if err := rows.Scan(
			&row.ID, &valueText, &valueNum, &row.CreatedAt,
			&row.Question.ID, &row.Question.Code, &row.Question.Prompt, &qType, &options,
			&row.Response.ID, &custName, &custEmail, &location, &row.Response.CreatedAt, &sentiment, &npsBucket,
		); err != nil {
			return nil, 0, fmt.Errorf("scan answer row: %w", err)
		}
		row.ValueText = valueText.String
		row.ValueNumber = fromNullFloat(valueNum)
		row.Question.Type = models.QuestionType(qType)
		row.Question.Options = decodeOptions(options)
		row.Response.CustomerName = custName.String
		row.Response.CustomerEmail = custEmail.String
		row.Response.Location = models.Location(location)
		row.Response.SentimentScore = fromNullFloat(sentiment)
		row.Response.NPSBucket = npsBucket.String
		out = append(out, &row)
	}
	return out, total, rows.Err()
}

func (s *Store) ListResponsesWithAnswers(f services.Filter, limit int) ([]*services.ResponseWithAnswers, error) {
	conds, args := responseFilterClauses(f, "r")
	query := "SELECT r.id, r.location, r.created_at, r.nps_bucket, r.sentiment_score FROM survey_responses r" +
		whereClause(conds) + " ORDER BY r.created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list responses for insights: %w", err)
	}
	defer rows.Close()

	var out []*services.ResponseWithAnswers
	index := map[string]*services.ResponseWithAnswers{}
	var ids []any
	for rows.Next() {
		var (
			r         services.ResponseWithAnswers
			location  string
			npsBucket sql.NullString
			sentiment sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &location, &r.CreatedAt, &npsBucket, &sentiment); err != nil {
			return nil, fmt.Errorf("scan insights response: %w", err)
		}
		r.Location = models.Location(location)
		r.NPSBucket = npsBucket.String
		r.SentimentScore = fromNullFloat(sentiment)
		out = append(out, &r)
		index[r.ID] = &r
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	answerQuery := `SELECT a.response_id, a.value_text, a.value_number, q.code, q.prompt, q.question_type
		FROM survey_answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.response_id IN (` + inPlaceholders(len(ids)) + `)
		ORDER BY a.created_at`
	answerRows, err := s.db.Query(s.rebind(answerQuery), ids...)
	if err != nil {
		return nil, fmt.Errorf("list insight answers: %w", err)
	}
	defer answerRows.Close()

	for answerRows.Next() {
		var (
			responseID string
			valueText  sql.NullString
			valueNum   sql.NullFloat64
			code       string
			prompt     string
			qType      string
		)
		if err := answerRows.Scan(&responseID, &valueText, &valueNum, &code, &prompt, &qType); err != nil {
			return nil, fmt.Errorf("scan insight answer: %w", err)
		}
		if r, ok := index[responseID]; ok {
			r.Answers = append(r.Answers, services.InsightAnswer{
				QuestionCode:   code,
				QuestionPrompt: prompt,
				QuestionType:   models.QuestionType(qType),
				ValueText:      valueText.String,
				ValueNumber:    fromNullFloat(valueNum),
			})
		}
	}
	return out, answerRows.Err()
}

// --- questions ---

const questionColumns = "id, code, prompt, question_type, options, sort_order, is_active"

func (s *Store) GetQuestion(id string) (*models.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions WHERE id = ?"
	q, err := scanQuestion(s.db.QueryRow(s.rebind(query), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func scanQuestion(row interface{ Scan(...any) error }) (*models.Question, error) {
	var (
		q        models.Question
		qType    string
		options  sql.NullString
		isActive int64
	)
	if err := row.Scan(&q.ID, &q.Code, &q.Prompt, &qType, &options, &q.SortOrder, &isActive); err != nil {
		return nil, err
	}
	q.Type = models.QuestionType(qType)
	q.Options = decodeOptions(options)
	q.IsActive = isActive != 0
	return &q, nil
}

func (s *Store) ListQuestions(activeOnly bool) ([]*models.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY sort_order, code"
	rows, err := s.db.Query(s.rebind(query))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) UpsertQuestionsByCode(qs []*models.Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin questions tx: %w", err)
	}
	query := s.rebind(`INSERT INTO questions (` + questionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			prompt = excluded.prompt,
			question_type = excluded.question_type,
			options = excluded.options,
			sort_order = excluded.sort_order,
			is_active = excluded.is_active`)
	for _, q := range qs {
		options, err := encodeOptions(q.Options)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode question options: %w", err)
		}
		if _, err := tx.Exec(query, q.ID, q.Code, q.Prompt, string(q.Type), options, q.SortOrder, boolToInt64(q.IsActive)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert question %s: %w", q.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit questions: %w", err)
	}
	return nil
}

// --- customers ---

const customerColumns = "id, name, email, phone, created_at, updated_at"

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var (
		c           models.Customer
		name, phone sql.NullString
	)
	if err := row.Scan(&c.ID, &name, &c.Email, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Name = name.String
	c.Phone = phone.String
	return &c, nil
}

func (s *Store) UpsertCustomerByEmail(c *models.Customer) (*models.Customer, error) {
	query := `INSERT INTO customers (` + customerColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			updated_at = excluded.updated_at
		RETURNING ` + customerColumns
	stored, err := scanCustomer(s.db.QueryRow(s.rebind(query),
		c.ID, toNullString(c.Name), c.Email, toNullString(c.Phone), c.CreatedAt, c.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}
	return stored, nil
}

func (s *Store) GetCustomer(id string) (*models.Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE id = ?"
	c, err := scanCustomer(s.db.QueryRow(s.rebind(query), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (s *Store) UpdateCustomer(c *models.Customer) error {
	query := `UPDATE customers SET name = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.Exec(s.rebind(query), toNullString(c.Name), c.Email, toNullString(c.Phone), c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteCustomer(id string) error {
	if _, err := s.db.Exec(s.rebind("DELETE FROM customers WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func (s *Store) ListCustomers(p services.CustomerListParams) ([]*models.Customer, int, error) {
	var conds []string
	var args []any
	if p.Search != "" {
		conds = append(conds, "LOWER(c.email) LIKE ?")
		args = append(args, "%"+strings.ToLower(p.Search)+"%")
	}
	if p.Filter.From != nil || p.Filter.To != nil || p.Filter.Location != "" {
		sub, subArgs := responseFilterClauses(p.Filter, "r")
		sub = append(sub, "r.customer_id IS NOT NULL")
		conds = append(conds, "c.id IN (SELECT r.customer_id FROM survey_responses r"+whereClause(sub)+")")
		args = append(args, subArgs...)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM customers c" + whereClause(conds)
	if err := s.db.QueryRow(s.rebind(countQuery), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := "SELECT " + aliased(customerColumns, "c") + " FROM customers c" + whereClause(conds) +
		" ORDER BY c.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, p.Limit, p.Offset)
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// CountNewCustomers counts distinct customers seen in survey responses
// inside the window, keyed by response location. Responses identify a
// customer by id or, for guests who only left an email, by that email.
// The total is the sum of the per-location counts so the two always agree.
func (s *Store) CountNewCustomers(f services.Filter) (int, map[string]int, error) {
	conds := []string{"COALESCE(customer_id, customer_email) IS NOT NULL"}
	var args []any
	if f.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *f.To)
	}

	query := "SELECT location, COUNT(DISTINCT COALESCE(customer_id, customer_email)) FROM survey_responses" +
		whereClause(conds) + " GROUP BY location"
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return 0, nil, fmt.Errorf("count new customers: %w", err)
	}
	defer rows.Close()

	total := 0
	byLocation := map[string]int{}
	for rows.Next() {
		var location string
		var count int
		if err := rows.Scan(&location, &count); err != nil {
			return 0, nil, fmt.Errorf("scan location count: %w", err)
		}
		byLocation[location] = count
		total += count
	}
	return total, byLocation, rows.Err()
}

// ListCustomerVisits lists a customer's responses newest-first, trimmed to
// the visit timeline fields.
func (s *Store) ListCustomerVisits(customerID string) ([]*services.CustomerVisit, error) {
	query := "SELECT id, location, created_at FROM survey_responses WHERE customer_id = ? ORDER BY created_at DESC"
	rows, err := s.db.Query(s.rebind(query), customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer visits: %w", err)
	}
	defer rows.Close()

	var out []*services.CustomerVisit
	for rows.Next() {
		var v services.CustomerVisit
		var location string
		if err := rows.Scan(&v.ID, &location, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Location = models.Location(location)
		out = append(out, &v)
	}
	return out, rows.Err()
}

// --- admin users ---

func (s *Store) FindAdminByEmail(email string) (*models.AdminUser, error) {
	query := "SELECT id, email, pass_hash, created_at FROM admin_users WHERE email = ?"
	var u models.AdminUser
	var hash string
	err := s.db.QueryRow(s.rebind(query), email).Scan(&u.ID, &u.Email, &hash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	u.PassHash = []byte(hash)
	return &u, nil
}

func (s *Store) AddAdmin(u *models.AdminUser) error {
	query := "INSERT INTO admin_users (id, email, pass_hash, created_at) VALUES (?, ?, ?, ?)"
	if _, err := s.db.Exec(s.rebind(query), u.ID, u.Email, string(u.PassHash), u.CreatedAt); err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	return nil
}

// Interface conformance.
var (
	_ services.StatsStore      = (*Store)(nil)
	_ services.AnswerStore     = (*Store)(nil)
	_ services.InsightsStore   = (*Store)(nil)
	_ services.SubmissionStore = (*Store)(nil)
	_ services.QuestionStore   = (*Store)(nil)
	_ services.CustomerStore   = (*Store)(nil)
	_ services.ExportStore     = (*Store)(nil)
	_ services.AuthStore       = (*Store)(nil)
)

package postgres

import (
	"fmt"
	"strings"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
)

// Колонки в порядке, в котором их читает scanListing.
const listingColumns = `id::text, COALESCE(title, ''), COALESCE(name, ''), COALESCE(city, ''), COALESCE(state, ''),
	COALESCE(location, ''), COALESCE(property_type, ''), COALESCE(category, ''), COALESCE(purpose, ''),
	COALESCE(status, ''), COALESCE(price, 0)::float8, bedrooms::int4, bathrooms::int4, area::float8,
	COALESCE(images, '{}'), COALESCE(agent_id, ''), COALESCE(agent_name, ''),
	latitude::float8, longitude::float8, COALESCE(created_at, 'epoch'::timestamptz)`

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argID: 1,
		args:  make([]interface{}, 0),
	}
}

// addCondition подставляет номер следующего аргумента вместо всех вхождений $%[1]d.
func (qb *queryBuilder) addCondition(condition string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) where() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *queryBuilder) nextArg(arg interface{}) string {
	placeholder := fmt.Sprintf("$%d", qb.argID)
	qb.args = append(qb.args, arg)
	qb.argID++
	return placeholder
}

// applyRepositoryQuery переводит RepositoryQuery в WHERE с теми же правилами,
// что и движок фильтров: подстрока в location или в "город штат", регистр не важен для типа,
// "_" и пробел равнозначны в категории.
func applyRepositoryQuery(q domain.RepositoryQuery) *queryBuilder {
	qb := newQueryBuilder()

	if city := strings.TrimSpace(q.City); city != "" {
		qb.addCondition("(location ILIKE $%[1]d OR (COALESCE(city, '') || ' ' || COALESCE(state, '')) ILIKE $%[1]d)", "%"+escapeLike(city)+"%")
	}
	if t := strings.TrimSpace(q.Type); t != "" {
		qb.addCondition("lower(property_type) = lower($%[1]d)", t)
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		qb.addCondition("lower(replace(category, '_', ' ')) = lower(replace($%[1]d, '_', ' '))", s)
	}
	return qb
}

func buildPageQueries(q domain.RepositoryQuery) (countSQL, dataSQL string, countArgs, dataArgs []interface{}) {
	qb := applyRepositoryQuery(q)
	where := qb.where()

	countSQL = fmt.Sprintf("SELECT COUNT(*) FROM listings %s", where)
	countArgs = append([]interface{}(nil), qb.args...)

	limit := qb.nextArg(q.Limit)
	offset := qb.nextArg((q.Page - 1) * q.Limit)
	dataSQL = fmt.Sprintf("SELECT %s FROM listings %s ORDER BY created_at DESC, id LIMIT %s OFFSET %s",
		listingColumns, where, limit, offset)

	return countSQL, dataSQL, countArgs, qb.args
}

func buildSearchQuery(text string, limit int) (string, []interface{}) {
	qb := newQueryBuilder()
	qb.addCondition("(title ILIKE $%[1]d OR name ILIKE $%[1]d OR location ILIKE $%[1]d OR city ILIKE $%[1]d)",
		"%"+escapeLike(strings.TrimSpace(text))+"%")

	sql := fmt.Sprintf("SELECT %s FROM listings %s ORDER BY created_at DESC, id", listingColumns, qb.where())
	if limit > 0 {
		sql += " LIMIT " + qb.nextArg(limit)
	}
	return sql, qb.args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

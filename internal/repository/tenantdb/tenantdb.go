// Package tenantdb wraps gorm so that every read, write and aggregate is
// confined to a single tenant. Callers never see an unscoped query.
package tenantdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column holds the owning tenant on every scoped table.
const Column = "tenant_id"

var (
	ErrInvalidTenantID = errors.New("tenantdb: tenant id must be a non-nil UUID")
	ErrNotFound        = errors.New("tenantdb: record not found")
	ErrInvalidChanges  = errors.New("tenantdb: changes must be a map or a tenant-scoped struct")
)

// Filter narrows a query. Implementations never mention the tenant; whatever
// they add is grouped, so an OR inside a filter cannot reach other tenants.
type Filter interface {
	Apply(tx *gorm.DB) *gorm.DB
}

// Scoped is implemented by every tenant-owned model.
type Scoped interface {
	SetTenantID(tenantID string)
}

// Option shapes a query after scoping: ordering, paging, preloads.
type Option func(tx *gorm.DB, tenantID string) *gorm.DB

// Stage is one step of an aggregate pipeline, applied on top of the tenant match.
type Stage func(tx *gorm.DB) *gorm.DB

type TenantDB struct {
	db       *gorm.DB
	tenantID string
}

// New refuses to build a helper for anything but a real tenant id.
func New(db *gorm.DB, tenantID string) (*TenantDB, error) {
	id, err := uuid.Parse(tenantID)
	if err != nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTenantID, tenantID)
	}
	return &TenantDB{db: db, tenantID: id.String()}, nil
}

func (t *TenantDB) TenantID() string {
	return t.tenantID
}

// Match is an equality filter. Any tenant key it carries is replaced.
type Match map[string]any

func (m Match) Apply(tx *gorm.DB) *gorm.DB {
	if len(m) == 0 {
		return tx
	}
	return tx.Where(map[string]any(m))
}

// AddTenantFilter merges the tenant into a caller filter. The tenant always
// wins over a caller-supplied tenant key.
func AddTenantFilter(tenantID string, filter Match) Match {
	out := make(Match, len(filter)+1)
	for k, v := range filter {
		if isTenantKey(k) {
			continue
		}
		out[k] = v
	}
	out[Column] = tenantID
	return out
}

func OrderBy(order string) Option {
	return func(tx *gorm.DB, _ string) *gorm.DB {
		return tx.Order(order)
	}
}

func Limit(n int) Option {
	return func(tx *gorm.DB, _ string) *gorm.DB {
		return tx.Limit(n)
	}
}

func Offset(n int) Option {
	return func(tx *gorm.DB, _ string) *gorm.DB {
		return tx.Offset(n)
	}
}

// Select restricts the columns read, or written by an update.
func Select(columns ...string) Option {
	return func(tx *gorm.DB, _ string) *gorm.DB {
		return tx.Select(columns)
	}
}

// Preload loads an association, itself restricted to the same tenant.
func Preload(association string) Option {
	return func(tx *gorm.DB, tenantID string) *gorm.DB {
		return tx.Preload(association, Column+" = ?", tenantID)
	}
}

func (t *TenantDB) tenantCondition() clause.Expression {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: Column},
		Value:  t.tenantID,
	}
}

func (t *TenantDB) query(ctx context.Context, model any, filter Filter, opts ...Option) *gorm.DB {
	tx := t.db.WithContext(ctx).Model(model).Where(t.tenantCondition())
	if filter != nil {
		if m, ok := filter.(Match); ok {
			filter = AddTenantFilter(t.tenantID, m)
		}
		tx = tx.Where(filter.Apply(t.db.Session(&gorm.Session{NewDB: true})))
	}
	for _, opt := range opts {
		tx = opt(tx, t.tenantID)
	}
	return tx
}

func Find[T any](ctx context.Context, t *TenantDB, filter Filter, opts ...Option) ([]T, error) {
	out := make([]T, 0)
	if err := t.query(ctx, new(T), filter, opts...).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func FindOne[T any](ctx context.Context, t *TenantDB, filter Filter, opts ...Option) (*T, error) {
	var out T
	if err := t.query(ctx, new(T), filter, opts...).Take(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindByID treats a malformed id as not found.
func FindByID[T any](ctx context.Context, t *TenantDB, id string, opts ...Option) (*T, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return FindOne[T](ctx, t, Match{"id": id}, opts...)
}

func Count[T any](ctx context.Context, t *TenantDB, filter Filter) (int64, error) {
	var n int64
	if err := t.query(ctx, new(T), filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Create stamps the helper's tenant on doc, replacing whatever the caller set.
func Create(ctx context.Context, t *TenantDB, doc Scoped) error {
	doc.SetTenantID(t.tenantID)
	return t.db.WithContext(ctx).Create(doc).Error
}

// UpdateMany applies changes to every matching row and returns how many matched.
// changes is either a column map or a *T combined with a Select option.
func UpdateMany[T any](ctx context.Context, t *TenantDB, filter Filter, changes any, opts ...Option) (int64, error) {
	guarded, err := t.guardChanges(changes)
	if err != nil {
		return 0, err
	}
	res := t.query(ctx, new(T), filter, opts...).Updates(guarded)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func UpdateOne[T any](ctx context.Context, t *TenantDB, filter Filter, changes any, opts ...Option) (*T, error) {
	id, err := firstID[T](ctx, t, filter)
	if err != nil {
		return nil, err
	}
	return UpdateByID[T](ctx, t, id, changes, opts...)
}

// UpdateByID returns the record as stored after the update.
func UpdateByID[T any](ctx context.Context, t *TenantDB, id string, changes any, opts ...Option) (*T, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	n, err := UpdateMany[T](ctx, t, Match{"id": id}, changes, opts...)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return FindByID[T](ctx, t, id)
}

func DeleteMany[T any](ctx context.Context, t *TenantDB, filter Filter) (int64, error) {
	res := t.query(ctx, new(T), filter).Delete(new(T))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func DeleteOne[T any](ctx context.Context, t *TenantDB, filter Filter) (*T, error) {
	id, err := firstID[T](ctx, t, filter)
	if err != nil {
		return nil, err
	}
	return DeleteByID[T](ctx, t, id)
}

// DeleteByID returns the record that was removed.
func DeleteByID[T any](ctx context.Context, t *TenantDB, id string) (*T, error) {
	doc, err := FindByID[T](ctx, t, id)
	if err != nil {
		return nil, err
	}
	n, err := DeleteMany[T](ctx, t, Match{"id": id})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Aggregate runs stages over a derived table that only holds this tenant's
// rows of model. The tenant match is always the first stage.
func Aggregate[R any](ctx context.Context, t *TenantDB, model any, stages ...Stage) ([]R, error) {
	match := t.db.WithContext(ctx).Model(model).Where(t.tenantCondition())
	tx := t.db.WithContext(ctx).Table("(?) AS scoped", match)
	for _, stage := range stages {
		tx = stage(tx)
	}
	out := make([]R, 0)
	if err := tx.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (t *TenantDB) guardChanges(changes any) (any, error) {
	switch v := changes.(type) {
	case map[string]any:
		return map[string]any(AddTenantFilter(t.tenantID, Match(v))), nil
	case Match:
		return map[string]any(AddTenantFilter(t.tenantID, v)), nil
	case Scoped:
		v.SetTenantID(t.tenantID)
		return v, nil
	default:
		return nil, ErrInvalidChanges
	}
}

func firstID[T any](ctx context.Context, t *TenantDB, filter Filter) (string, error) {
	var ids []string
	if err := t.query(ctx, new(T), filter).Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", ErrNotFound
	}
	return ids[0], nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isTenantKey(key string) bool {
	return strings.EqualFold(strings.Trim(key, "`\" "), Column)
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

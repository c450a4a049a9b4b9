package atelier_test

import (
	"database/sql"
	"testing"

	"github.com/atelierhq/atelier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newQueryDB(t *testing.T) *bun.DB {
	t.Helper()

	// Queries are only rendered, never executed, so the lazy connection
	// is never dialed.
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	return bun.NewDB(sqldb, sqlitedialect.New())
}

func TestProjectionCriteriaExcludesColumns(t *testing.T) {
	db := newQueryDB(t)

	projection := atelier.Projection{
		Exclude: []string{"hash", "api_key"},
	}

	q := db.NewSelect().Model((*atelier.Account)(nil))
	q = q.Apply(projection.Criteria())

	rendered := q.String()
	assert.Contains(t, rendered, `"acc"."login"`)
	assert.Contains(t, rendered, `"acc"."email"`)
	assert.NotContains(t, rendered, "hash")
	assert.NotContains(t, rendered, "api_key")
}

func TestProjectionCriteriaAppliesRelationShaping(t *testing.T) {
	db := newQueryDB(t)

	projection := atelier.Projection{
		Relations: []atelier.RelationProjection{
			{Name: "Role", Exclude: []string{"id"}},
		},
	}

	q := db.NewSelect().Model((*atelier.Account)(nil))
	q = q.Apply(projection.Criteria())

	rendered := q.String()
	assert.Contains(t, rendered, `"role"."name"`)
	assert.NotContains(t, rendered, `"role"."id" AS`)
}

func TestAccountDetailProjectionShape(t *testing.T) {
	p := atelier.AccountDetailProjection

	assert.ElementsMatch(t, []string{"hash", "api_key", "role_id"}, p.Exclude)

	byName := map[string]atelier.RelationProjection{}
	for _, rel := range p.Relations {
		byName[rel.Name] = rel
	}

	for _, name := range []string{
		"Role",
		"Operator",
		"Operator.ContractorCommissions",
		"Image",
		"Client",
		"Client.AuthorCommissions",
		"Statistics",
	} {
		assert.Contains(t, byName, name)
	}

	contractor := byName["Operator.ContractorCommissions"]
	assert.Equal(t, "created_at DESC", contractor.Order)
	assert.Contains(t, contractor.Columns, "id")
	assert.Contains(t, contractor.Columns, "contractor_id")

	author := byName["Client.AuthorCommissions"]
	assert.Equal(t, "created_at DESC", author.Order)
	assert.Contains(t, author.Columns, "id")
	assert.Contains(t, author.Columns, "author_id")

	stats := byName["Statistics"]
	assert.ElementsMatch(t, []string{"id", "api_key"}, stats.Exclude)
}

package atelier

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RelationProjection shapes one eager-loaded association: which columns
// survive and in what order related rows arrive.
type RelationProjection struct {
	Name    string
	Columns []string
	Exclude []string
	Order   string
}

// Projection is a declarative projection/association-graph descriptor:
// columns to drop from the root model plus the relation tree to load.
// It compiles to select criteria instead of hand-written joins.
type Projection struct {
	Exclude   []string
	Relations []RelationProjection
}

// Criteria compiles the descriptor into a bun select criteria.
func (p Projection) Criteria() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if len(p.Exclude) > 0 {
			q = q.ExcludeColumn(p.Exclude...)
		}

		for _, rel := range p.Relations {
			rel := rel
			if len(rel.Columns) == 0 && len(rel.Exclude) == 0 && rel.Order == "" {
				q = q.Relation(rel.Name)
				continue
			}

			q = q.Relation(rel.Name, func(sq *bun.SelectQuery) *bun.SelectQuery {
				if len(rel.Columns) > 0 {
					sq = sq.Column(rel.Columns...)
				}
				if len(rel.Exclude) > 0 {
					sq = sq.ExcludeColumn(rel.Exclude...)
				}
				if rel.Order != "" {
					sq = sq.Order(rel.Order)
				}
				return sq
			})
		}

		return q
	}
}

// AccountDetailProjection is the fixed, privacy-filtered shape served by
// the account read endpoint: no hash, no api key, no raw foreign keys,
// commissions newest first. The has-many column lists keep the join key
// so bun can attach the rows to their parent.
var AccountDetailProjection = Projection{
	Exclude: []string{"hash", "api_key", "role_id"},
	Relations: []RelationProjection{
		{Name: "Role", Exclude: []string{"id"}},
		{Name: "Operator"},
		{
			Name:    "Operator.ContractorCommissions",
			Columns: []string{"id", "contractor_id"},
			Order:   "created_at DESC",
		},
		{Name: "Image"},
		{Name: "Client"},
		{
			Name:    "Client.AuthorCommissions",
			Columns: []string{"id", "author_id"},
			Order:   "created_at DESC",
		},
		{Name: "Statistics", Exclude: []string{"id", "api_key"}},
	},
}

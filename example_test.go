package rewriter_test

import (
	"context"
	"fmt"

	rewriter "github.com/tenantql/go-sql-rewriter"
	"github.com/tenantql/go-sql-rewriter/sql/rewrite"
)

func Example() {
	e := rewriter.NewDefault()
	ctx := context.Background()

	q, err := e.Parse(ctx, `SELECT * FROM logs WHERE severity > 3`)
	checkIfError(err)

	q, err = e.Rewrite(ctx, q,
		rewrite.TenantScopeRule([]string{"acme"}),
		rewrite.DefaultOrderRule,
	)
	checkIfError(err)

	fmt.Println(e.Query(q))
	fmt.Println(e.GetOrganizations(q))

	// Output: select * from logs where severity > 3 and organization in ('acme') order by `timestamp` desc
	// [acme]
}

func checkIfError(err error) {
	if err != nil {
		panic(err)
	}
}

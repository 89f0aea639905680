package main

import (
	"context"
	"fmt"

	rewriter "github.com/tenantql/go-sql-rewriter"
	"github.com/tenantql/go-sql-rewriter/sql/rewrite"
)

// Example of how to scope and bound a query before sending it to the log
// store:
//
// ```
// > go run ./_example
// select * from logs where severity > 3 and organization in ('acme', 'globex') and `timestamp` between date_add('Day', -7, now()) and now() order by `timestamp` desc
// select count(*) as count from (select * from logs where severity > 3 and organization in ('acme', 'globex') and `timestamp` between date_add('Day', -7, now()) and now())
// ```
func main() {
	e := rewriter.NewDefault()
	ctx := context.Background()

	q, err := e.Parse(ctx, "SELECT * FROM logs WHERE severity > 3")
	if err != nil {
		panic(err)
	}

	q, err = e.Rewrite(ctx, q,
		rewrite.TenantScopeRule(rewrite.SplitTenantIDs("acme, globex")),
		rewrite.TimeWindowRule(e.DefaultTimeWindow()),
	)
	if err != nil {
		panic(err)
	}

	out, err := e.CheckAndAddOrderClause(ctx, q)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)

	count, err := e.GetCountQuery(ctx, q)
	if err != nil {
		panic(err)
	}
	fmt.Println(e.Query(count))
}

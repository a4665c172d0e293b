package hashnode

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// Request is a GraphQL request body. Values always travel as variables,
// never spliced into the query text.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

const publishPostMutation = `mutation PublishPost($input: PublishPostInput!) {
  publishPost(input: $input) {
    post {
      id
      slug
    }
  }
}`

// TagAlias is the response key carrying the identifier of the i-th tag.
func TagAlias(i int) string {
	return fmt.Sprintf("tag%d", i)
}

// BuildPublishIDsRequest builds the query resolving the publication id for
// host and one tag id per slug. Tag i is requested under the alias tag<i>.
func BuildPublishIDsRequest(host string, tags []string) Request {
	var query strings.Builder
	query.WriteString("query PublishIds($host: String!")
	for i := range tags {
		fmt.Fprintf(&query, ", $%s: String!", TagAlias(i))
	}
	query.WriteString(") {\n")
	query.WriteString("  publication(host: $host) {\n    id\n  }\n")
	for i := range tags {
		alias := TagAlias(i)
		fmt.Fprintf(&query, "  %s: tag(slug: $%s) {\n    id\n  }\n", alias, alias)
	}
	query.WriteString("}")

	variables := map[string]any{"host": host}
	for i, tag := range tags {
		variables[TagAlias(i)] = tag
	}

	return Request{
		Query:         query.String(),
		OperationName: "PublishIds",
		Variables:     variables,
	}
}

// BuildPublishPostRequest builds the publishPost mutation for input.
func BuildPublishPostRequest(input interfaces.PublishPostInput) Request {
	return Request{
		Query:         publishPostMutation,
		OperationName: "PublishPost",
		Variables:     map[string]any{"input": input},
	}
}

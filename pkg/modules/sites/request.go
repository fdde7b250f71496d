package sites

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// BuildRequest translates a tool call into the upstream request it issues.
// When the arguments fail local validation the returned Result is set and
// no request must be sent.
func BuildRequest(op Operation, args map[string]any) (*RequestSpec, *Result) {
	if args == nil {
		args = map[string]any{}
	}

	switch op {
	case OpCreateSite:
		return buildCreateSiteRequest(args), nil
	case OpQuerySites:
		return buildQuerySitesRequest(args), nil
	case OpGetSiteByID:
		return buildGetSiteByIDRequest(args)
	case OpManageSite:
		return buildManageSiteRequest(args)
	case OpGetSiteResizeStatus:
		return buildResizeStatusRequest(args)
	}

	res := localValidationError("Unsupported operation: %s", op)
	return nil, &res
}

func buildCreateSiteRequest(args map[string]any) *RequestSpec {
	body := make(map[string]any, len(args))
	for k, v := range args {
		if k == "dryRun" {
			continue
		}
		body[k] = v
	}

	query := url.Values{}
	if isTrue(args["dryRun"]) {
		query.Set("dryRun", "true")
	}

	return &RequestSpec{
		Method: http.MethodPost,
		Path:   sitesPath,
		Query:  query,
		Body:   body,
	}
}

var (
	listFilters   = []string{"siteList", "purpose", "region", "accountName"}
	scalarFilters = []string{"siteId", "createdAfter", "createdBefore", "modifiedAfter", "status", "startIndex", "batchSize"}
)

func buildQuerySitesRequest(args map[string]any) *RequestSpec {
	query := url.Values{}

	for _, name := range listFilters {
		if joined := joinList(args[name]); joined != "" {
			query.Set(name, joined)
		}
	}
	for _, name := range scalarFilters {
		if value, ok := args[name]; ok && value != nil {
			query.Set(name, formatValue(value))
		}
	}

	// labelValue is meaningless without labelName, so both travel together
	labelName, hasName := args["labelName"]
	labelValue, hasValue := args["labelValue"]
	if hasName && hasValue && labelName != nil {
		query.Set("labelName", formatValue(labelName))
		query.Set("labelValue", joinList(labelValue))
	}

	return &RequestSpec{
		Method: http.MethodGet,
		Path:   sitesPath,
		Query:  query,
	}
}

func buildGetSiteByIDRequest(args map[string]any) (*RequestSpec, *Result) {
	identifier := stringArg(args, "identifier")
	if identifier == "" {
		res := localValidationError("Site identifier is required")
		return nil, &res
	}

	return &RequestSpec{
		Method:     http.MethodGet,
		Path:       sitesPath + "/" + url.PathEscape(identifier),
		Identifier: identifier,
	}, nil
}

func buildManageSiteRequest(args map[string]any) (*RequestSpec, *Result) {
	identifier := stringArg(args, "identifier")
	action := Action(stringArg(args, "action"))
	if identifier == "" || action == "" {
		res := localValidationError("Both identifier and action are required")
		return nil, &res
	}
	if !action.Valid() {
		res := localValidationError("Unsupported action: %s", action)
		return nil, &res
	}

	body, res := action.body(args)
	if res != nil {
		return nil, res
	}

	query := url.Values{}
	query.Set("action", string(action))
	if isTrue(args["dryRun"]) {
		query.Set("dryRun", "true")
	}

	return &RequestSpec{
		Method:     http.MethodPut,
		Path:       sitesPath + "/" + url.PathEscape(identifier),
		Query:      query,
		Body:       body,
		Identifier: identifier,
		Action:     action,
	}, nil
}

func buildResizeStatusRequest(args map[string]any) (*RequestSpec, *Result) {
	siteID := stringArg(args, "siteId")
	if siteID == "" {
		res := localValidationError("Site ID is required")
		return nil, &res
	}

	return &RequestSpec{
		Method:     http.MethodGet,
		Path:       resizesPath + "/" + url.PathEscape(siteID),
		Identifier: siteID,
	}, nil
}

// stringArg returns the argument as a string, accepting numeric ids as well
func stringArg(args map[string]any, name string) string {
	value, ok := args[name]
	if !ok || value == nil {
		return ""
	}
	return formatValue(value)
}

// joinList renders an array argument as a comma separated list.
// A scalar is rendered as is.
func joinList(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ",")
	default:
		return formatValue(v)
	}
}

// formatValue renders a decoded JSON value for a query string or path.
// Integral numbers drop their decimal part.
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isTrue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

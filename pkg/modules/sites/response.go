package sites

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid JSON body")

// Interpret maps the upstream response of a tool call to its textual result
func Interpret(op Operation, req *RequestSpec, resp *ResponseSpec) Result {
	switch op {
	case OpCreateSite:
		return interpretCreateSite(resp)
	case OpQuerySites:
		return interpretQuerySites(resp)
	case OpGetSiteByID:
		return interpretGetSiteByID(req, resp)
	case OpManageSite:
		return interpretManageSite(req, resp)
	case OpGetSiteResizeStatus:
		return interpretResizeStatus(req, resp)
	}
	return unexpectedStatusError(resp)
}

func interpretCreateSite(resp *ResponseSpec) Result {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		body, err := parseBody(resp)
		if err != nil {
			return decodeError(OpCreateSite, err)
		}
		return success("✅ Site created successfully: " + messageOr(body, "Site created"))
	case http.StatusBadRequest:
		return validationErrors(OpCreateSite, resp)
	case http.StatusMethodNotAllowed:
		return success("✅ Dry run successful - no validation errors found. Site would be created if dryRun=false")
	case http.StatusInternalServerError:
		return serverError()
	}
	return unexpectedStatusError(resp)
}

func interpretQuerySites(resp *ResponseSpec) Result {
	const noSites = "No sites found matching the query criteria."

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := parseBody(resp)
		if err != nil {
			return decodeError(OpQuerySites, err)
		}
		sites := records(body)
		if len(sites) == 0 {
			return success(noSites)
		}

		total := resp.Header.Get("X-Total-Count")
		if total == "" {
			total = "Unknown"
		}
		return success(fmt.Sprintf("Found %d sites (Total matching: %s)\n\n", len(sites), total) + formatSiteList(sites))
	case http.StatusNoContent:
		return success(noSites)
	case http.StatusBadRequest:
		return validationErrors(OpQuerySites, resp)
	case http.StatusInternalServerError:
		return serverError()
	}
	return unexpectedStatusError(resp)
}

// interpretGetSiteByID accepts both a single record and an array body, the
// latter being returned when several sites share the requested subdomain.
func interpretGetSiteByID(req *RequestSpec, resp *ResponseSpec) Result {
	switch resp.StatusCode {
	case http.StatusOK:
		body, err := parseBody(resp)
		if err != nil {
			return decodeError(OpGetSiteByID, err)
		}
		if body.IsArray() {
			sites := body.Array()
			if len(sites) == 0 {
				return failure(KindNotFound, "No site found with identifier: "+req.Identifier)
			}
			return success(fmt.Sprintf("Found %d site(s) with identifier '%s':\n\n", len(sites), req.Identifier) + formatSiteList(sites))
		}
		return success(fmt.Sprintf("Site details for '%s':\n\n", req.Identifier) + FormatSite(body))
	case http.StatusNotFound:
		return notFoundError(req.Identifier)
	case http.StatusBadRequest:
		return validationErrors(OpGetSiteByID, resp)
	case http.StatusInternalServerError:
		return serverError()
	}
	return unexpectedStatusError(resp)
}

func interpretManageSite(req *RequestSpec, resp *ResponseSpec) Result {
	switch resp.StatusCode {
	case http.StatusOK:
		body, err := parseBody(resp)
		if err != nil {
			return decodeError(OpManageSite, err)
		}
		fallback := fmt.Sprintf("Site %s completed successfully", req.Action)
		return success(req.Action.Symbol() + " " + messageOr(body, fallback))
	case http.StatusBadRequest:
		return validationErrors(OpManageSite, resp)
	case http.StatusForbidden:
		return ambiguousIdentifierError()
	case http.StatusNotFound:
		return notFoundError(req.Identifier)
	case http.StatusMethodNotAllowed:
		return success(fmt.Sprintf("✅ Dry run successful - no validation errors found. %s would be executed if dryRun=false", req.Action.Title()))
	case http.StatusInternalServerError:
		return serverError()
	}
	return unexpectedStatusError(resp)
}

var phaseSymbols = map[string]string{
	"Complete":    "✅",
	"Optimizing":  "⚙️",
	"In Progress": "🔄",
	"Pending":     "⏳",
}

func interpretResizeStatus(req *RequestSpec, resp *ResponseSpec) Result {
	switch resp.StatusCode {
	case http.StatusOK:
		body, err := parseBody(resp)
		if err != nil {
			return decodeError(OpGetSiteResizeStatus, err)
		}
		phase := stringOr(body.Get("phase"), "Unknown")
		lastModified := stringOr(body.Get("lastVolumeModificationTime"), "Unknown")
		symbol, ok := phaseSymbols[phase]
		if !ok {
			symbol = "📊"
		}
		return success(fmt.Sprintf("%s Resize Status for Site %s:\n\n"+
			"📊 Phase: %s\n"+
			"⏰ Last Volume Modification: %s\n\n"+
			"ℹ️  Note: If phase is 'Complete', the system is waiting out the 6-hour rate limit.",
			symbol, req.Identifier, phase, lastModified))
	case http.StatusNotFound:
		return success(fmt.Sprintf("✅ No resize operation in progress for site %s. A new resize can be initiated.", req.Identifier))
	case http.StatusInternalServerError:
		return serverError()
	}
	return unexpectedStatusError(resp)
}

// validationErrors lists the errors reported in a 400 body
func validationErrors(op Operation, resp *ResponseSpec) Result {
	body, err := parseBody(resp)
	if err != nil {
		return decodeError(op, err)
	}

	errs := []string{"Validation error"}
	if list := body.Get("errors"); list.IsArray() {
		errs = errs[:0]
		for _, e := range list.Array() {
			errs = append(errs, render(e))
		}
	}
	return upstreamValidationError(errs)
}

func parseBody(resp *ResponseSpec) (gjson.Result, error) {
	if !gjson.ValidBytes(resp.Body) {
		return gjson.Result{}, errInvalidJSON
	}
	return gjson.ParseBytes(resp.Body), nil
}

// records returns the site records of a list body; a single object counts as one record
func records(body gjson.Result) []gjson.Result {
	switch {
	case body.IsArray():
		return body.Array()
	case body.IsObject():
		return []gjson.Result{body}
	}
	return nil
}

func messageOr(body gjson.Result, fallback string) string {
	return stringOr(body.Get("message"), fallback)
}

func stringOr(value gjson.Result, fallback string) string {
	if !value.Exists() || value.Type == gjson.Null {
		return fallback
	}
	return render(value)
}

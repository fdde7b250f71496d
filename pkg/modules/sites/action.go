package sites

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Action is a manage-site operation accepted by the Maverick API
type Action string

const (
	ActionStart          Action = "start"
	ActionRestart        Action = "restart"
	ActionStop           Action = "stop"
	ActionForceStop      Action = "force-stop"
	ActionForceRestart   Action = "force-restart"
	ActionDelete         Action = "delete"
	ActionRevert         Action = "revert"
	ActionOnDemandBackup Action = "on-demand-backup"
	ActionEdit           Action = "edit"
	ActionClone          Action = "clone"
	ActionMove           Action = "move"
	ActionResize         Action = "resize"
)

// Actions lists every supported action in catalog order
var Actions = []Action{
	ActionStart, ActionRestart, ActionStop, ActionForceStop, ActionForceRestart,
	ActionDelete, ActionRevert, ActionOnDemandBackup, ActionEdit, ActionClone,
	ActionMove, ActionResize,
}

// actionSpec is the body contract of one action: fields that must be present,
// in the order they are checked, and fields forwarded when present.
type actionSpec struct {
	required []string
	optional []string
	symbol   string
	// missing renders the local validation message for an absent required field
	missing func(field string) string
}

var editFields = []string{
	"ami", "customerName", "expiresOn", "installer", "installerLabel",
	"isRecurring", "immediatelyRecurring", "timeToRestartSite", "purpose",
	"rpaEnabled", "rpaLabel", "rpaVersion", "serverSize", "siteProperties",
	"subdomain", "domain",
}

var cloneRequiredFields = []string{
	"reason", "requestorFirstName", "requestorLastName", "requestorEmail", "supportCase",
}

var cloneOptionalFields = []string{
	"topology", "subdomain", "volumeSize", "cluster", "expiresOn",
	"installer", "installerLabel", "purpose", "customerName", "serverSize",
	"restoreSpec", "isWebAndEmailAccessible",
}

var actionSpecs = map[Action]actionSpec{
	ActionStart:          {symbol: "🚀"},
	ActionRestart:        {symbol: "🔄"},
	ActionStop:           {symbol: "🛑"},
	ActionForceStop:      {symbol: "⚠️🛑"},
	ActionForceRestart:   {symbol: "⚠️🔄"},
	ActionDelete:         {symbol: "🗑️"},
	ActionOnDemandBackup: {symbol: "💾"},
	ActionEdit:           {symbol: "✏️", optional: editFields},
	ActionRevert: {
		symbol:   "⏪",
		required: []string{"restoreSpec"},
		missing: func(string) string {
			return "Revert action requires restoreSpec with siteID and createdAt"
		},
	},
	ActionClone: {
		symbol:   "👥",
		required: cloneRequiredFields,
		optional: cloneOptionalFields,
		missing: func(field string) string {
			return "Clone action requires field: " + field
		},
	},
	ActionMove: {
		symbol:   "📦",
		required: []string{"region"},
		optional: []string{"email"},
		missing: func(string) string {
			return "Move action requires region field"
		},
	},
	ActionResize: {
		symbol:   "📏",
		required: []string{"volumeSize"},
		missing: func(string) string {
			return "Resize action requires volumeSize field"
		},
	},
}

// Valid reports whether a is one of the supported actions
func (a Action) Valid() bool {
	_, ok := actionSpecs[a]
	return ok
}

// Symbol returns the marker prefixed to a successful action message
func (a Action) Symbol() string {
	if spec, ok := actionSpecs[a]; ok {
		return spec.symbol
	}
	return "⚙️"
}

// Title returns the action in title case, e.g. "Force-Stop"
func (a Action) Title() string {
	return cases.Title(language.Und).String(string(a))
}

// body builds the request body for the action from the call arguments.
// A nil body means nothing is sent. The returned Result is set when a
// required field is missing.
func (a Action) body(args map[string]any) (map[string]any, *Result) {
	spec := actionSpecs[a]

	body := make(map[string]any)
	for _, field := range spec.required {
		value, ok := args[field]
		if !ok {
			res := localValidationError("%s", spec.missing(field))
			return nil, &res
		}
		body[field] = value
	}
	for _, field := range spec.optional {
		if value, ok := args[field]; ok {
			body[field] = value
		}
	}

	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

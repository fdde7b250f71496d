package sites

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
)

// ToolConfig defines configuration for a single tool
type ToolConfig struct {
	Operation   Operation // Base tool name
	Description string    // Tool description
	Enabled     bool      // Whether the tool is enabled
}

// SitesToolsConfig defines configuration for all tools
type SitesToolsConfig struct {
	CreateSite          ToolConfig
	QuerySites          ToolConfig
	GetSiteByID         ToolConfig
	ManageSite          ToolConfig
	GetSiteResizeStatus ToolConfig
}

// GetDefaultToolsConfig returns default tool configuration
func GetDefaultToolsConfig() SitesToolsConfig {
	return SitesToolsConfig{
		CreateSite: ToolConfig{
			Operation:   OpCreateSite,
			Description: "Creates a new Maverick site with specified configuration",
			Enabled:     true,
		},
		QuerySites: ToolConfig{
			Operation:   OpQuerySites,
			Description: "Query Maverick sites using various filters and criteria",
			Enabled:     true,
		},
		GetSiteByID: ToolConfig{
			Operation:   OpGetSiteByID,
			Description: "Get detailed information about a specific site by ID or name",
			Enabled:     true,
		},
		ManageSite: ToolConfig{
			Operation:   OpManageSite,
			Description: "Perform actions on existing Maverick sites (start, stop, restart, delete, edit, clone, move, resize, etc.)",
			Enabled:     true,
		},
		GetSiteResizeStatus: ToolConfig{
			Operation:   OpGetSiteResizeStatus,
			Description: "Get the status of an ongoing site resize operation",
			Enabled:     true,
		},
	}
}

// list returns the tool configurations in catalog order
func (c SitesToolsConfig) list() []ToolConfig {
	return []ToolConfig{c.CreateSite, c.QuerySites, c.GetSiteByID, c.ManageSite, c.GetSiteResizeStatus}
}

// BuildToolName builds tool name based on configuration
func (m *Module) BuildToolName(baseName string) string {
	toolName := baseName
	if m.config.Tools.Prefix != "" {
		toolName = m.config.Tools.Prefix + toolName
	}
	if m.config.Tools.Suffix != "" {
		toolName = toolName + m.config.Tools.Suffix
	}
	return toolName
}

// BuildTools builds tool list based on configuration
func (m *Module) BuildTools(toolsConfig SitesToolsConfig) []server.ServerTool {
	var tools []server.ServerTool

	for _, tc := range toolsConfig.list() {
		if !tc.Enabled || m.isDisabled(tc.Operation) {
			continue
		}
		toolName := m.BuildToolName(string(tc.Operation))
		tools = append(tools, server.ServerTool{
			Tool:    m.buildToolDefinition(toolName, tc),
			Handler: metrics.WrapToolHandler(m.handlerFor(tc.Operation), toolName, moduleName),
		})
	}

	return tools
}

func (m *Module) isDisabled(op Operation) bool {
	for _, name := range m.config.Tools.Disabled {
		if name == string(op) {
			return true
		}
	}
	return false
}

func (m *Module) buildToolDefinition(toolName string, config ToolConfig) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(config.Description)}

	switch config.Operation {
	case OpCreateSite:
		opts = append(opts, createSiteOptions()...)
	case OpQuerySites:
		opts = append(opts, querySitesOptions()...)
	case OpGetSiteByID:
		opts = append(opts,
			mcp.WithString("identifier", mcp.Required(), mcp.Description("Site ID (numeric) or site name/subdomain")),
		)
	case OpManageSite:
		opts = append(opts, manageSiteOptions()...)
	case OpGetSiteResizeStatus:
		opts = append(opts,
			mcp.WithString("siteId", mcp.Required(), mcp.Description("Site ID to check resize status for")),
		)
	}

	return mcp.NewTool(toolName, opts...)
}

var (
	customerNames = []string{"Appian Engineering", "Appian Marketing", "Appian Training"}
	topologies    = []string{"single", "ha", "distributed-3", "distributed-9"}
	stringItems   = map[string]any{"type": "string"}
)

// withInteger adds an integer property; mcp-go only offers "number"
func withInteger(name string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return func(t *mcp.Tool) {
		schema := map[string]any{
			"type": "integer",
		}

		for _, opt := range opts {
			opt(schema)
		}

		if required, ok := schema["required"].(bool); ok && required {
			delete(schema, "required")
			t.InputSchema.Required = append(t.InputSchema.Required, name)
		}

		t.InputSchema.Properties[name] = schema
	}
}

func withRestoreSpec(description string) mcp.ToolOption {
	return mcp.WithObject("restoreSpec",
		mcp.Description(description),
		mcp.Properties(map[string]any{
			"siteID":    map[string]any{"type": "string"},
			"createdAt": map[string]any{"type": "string"},
		}),
	)
}

func createSiteOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("subdomain", mcp.Required(), mcp.Description("Required. The site name/subdomain")),
		mcp.WithString("installer", mcp.Description("Version of Appian to start the site with (e.g., '22.1.235.0')")),
		mcp.WithString("installerLabel", mcp.Description("Installer label of Appian (e.g., '22.1-latest')")),
		mcp.WithString("accountName", mcp.Description("Account to create the site in")),
		mcp.WithString("region", mcp.Description("AWS region (e.g., 'us-east-1')")),
		mcp.WithString("clusterVersion", mcp.Description("EKS version of the cluster (e.g., '1.21')")),
		mcp.WithString("serverSize", mcp.Description("Server size (e.g., 'm5.large')")),
		withInteger("volumeSize", mcp.Description("Volume size in GB (defaults to 50)")),
		mcp.WithString("customerName", mcp.Enum(customerNames...), mcp.Description("Customer associated with the site")),
		mcp.WithString("purpose",
			mcp.Enum(
				"bugbounty", "community", "customerdev", "customerstaging",
				"customerprod", "customertest", "customertraining", "demo",
				"development", "externaltraining", "hackathon", "internaltraining", "partner",
			),
			mcp.Description("Purpose of the site"),
		),
		mcp.WithBoolean("rpaEnabled", mcp.Description("Enable or disable RPA")),
		mcp.WithString("rpaLabel", mcp.Description("RPA label to use (defaults to 'production-latest')")),
		mcp.WithString("rpaVersion", mcp.Description("RPA version to use")),
		mcp.WithBoolean("encrypted", mcp.Description("Enable site node volume encryption (defaults to true)")),
		mcp.WithString("expiresOn", mcp.Description("UTC timestamp when site expires (YYYY-MM-DDTHH:MM:ss:00Z)")),
		mcp.WithString("ami", mcp.Description("Specific AMI ID to use")),
		mcp.WithString("topology", mcp.Enum(topologies...), mcp.Description("Site topology")),
		mcp.WithBoolean("isRecurring", mcp.Description("Whether site should restart with newer hotfix installers")),
		mcp.WithBoolean("immediatelyRecurring", mcp.Description("Restart immediately when new version available")),
		mcp.WithString("timeToRestartSite", mcp.Description("Preferred restart time in GMT (hh:mm AM/PM format)")),
		mcp.WithString("requestorFirstName", mcp.Description("First name of requestor")),
		mcp.WithString("requestorLastName", mcp.Description("Last name of requestor")),
		mcp.WithString("requestorEmail", mcp.Description("Email of requestor")),
		mcp.WithObject("siteProperties", mcp.Description("Custom properties for the site")),
		mcp.WithObject("siteLabels", mcp.Description("Labels to associate with the site")),
		withRestoreSpec("Snapshot to restore from"),
		mcp.WithObject("siteTestConfig",
			mcp.Description("Test configuration for the site"),
			mcp.Properties(map[string]any{
				"importOneApp": map[string]any{"type": "boolean"},
				"selectedApplications": map[string]any{
					"type":  "array",
					"items": stringItems,
				},
			}),
		),
		mcp.WithArray("featureToggleOverrides", mcp.Items(stringItems), mcp.Description("Feature toggle overrides")),
		mcp.WithBoolean("dryRun", mcp.Description("Perform a dry run validation (defaults to false)")),
	}
}

func querySitesOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("siteId", mcp.Description("Query by specific site ID or site name")),
		mcp.WithArray("siteList", mcp.Items(stringItems), mcp.Description("Query by multiple site IDs (comma-delimited list)")),
		mcp.WithArray("purpose", mcp.Items(stringItems), mcp.Description("Filter by site purpose(s)")),
		mcp.WithArray("region", mcp.Items(stringItems), mcp.Description("Filter by AWS region(s)")),
		mcp.WithArray("accountName", mcp.Items(stringItems), mcp.Description("Filter by account name(s)")),
		mcp.WithString("createdAfter", mcp.Description("Sites created after this time (MM/DD/YYYY hh:mm:ss AM/PM GMT or ISO8601)")),
		mcp.WithString("createdBefore", mcp.Description("Sites created before this time (MM/DD/YYYY hh:mm:ss AM/PM GMT or ISO8601)")),
		mcp.WithString("modifiedAfter", mcp.Description("Sites modified after this time (MM/DD/YYYY hh:mm:ss AM/PM GMT or ISO8601)")),
		mcp.WithString("status",
			mcp.Enum("Active", "All", "Shutdown", "Error Starting", "Error Stopping", "Unknown", "Ready"),
			mcp.Description("Filter by site status"),
		),
		mcp.WithString("labelName", mcp.Description("Filter by label name (must be used with labelValue)")),
		mcp.WithArray("labelValue", mcp.Items(stringItems), mcp.Description("Filter by label value(s) (must be used with labelName)")),
		withInteger("startIndex", mcp.Min(1), mcp.Description("Starting index for pagination (defaults to 1)")),
		withInteger("batchSize", mcp.Min(-1), mcp.Description("Number of results per page (defaults to 20, -1 for all)")),
	}
}

func manageSiteOptions() []mcp.ToolOption {
	actions := make([]string, 0, len(Actions))
	for _, a := range Actions {
		actions = append(actions, string(a))
	}

	return []mcp.ToolOption{
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Site ID (numeric) or site name/subdomain")),
		mcp.WithString("action", mcp.Required(), mcp.Enum(actions...), mcp.Description("Action to perform on the site")),
		mcp.WithBoolean("dryRun", mcp.Description("Perform a dry run validation (defaults to false)")),

		// edit
		mcp.WithString("ami", mcp.Description("Specific AMI ID to use (edit action)")),
		mcp.WithString("customerName", mcp.Enum(customerNames...), mcp.Description("Customer associated with the site (edit action)")),
		mcp.WithString("expiresOn", mcp.Description("UTC timestamp when site expires (edit action)")),
		mcp.WithString("installer", mcp.Description("Appian version (edit action)")),
		mcp.WithString("installerLabel", mcp.Description("Installer label (edit action)")),
		mcp.WithBoolean("isRecurring", mcp.Description("Whether site should restart with newer hotfix installers (edit action)")),
		mcp.WithBoolean("immediatelyRecurring", mcp.Description("Restart immediately when new version available (edit action)")),
		mcp.WithString("timeToRestartSite", mcp.Description("Preferred restart time in GMT (edit action)")),
		mcp.WithString("purpose",
			mcp.Enum(
				"development", "internaltraining", "externaltraining", "customerdev",
				"customerstaging", "customerprod", "bugbounty", "community",
				"hackathon", "partner",
			),
			mcp.Description("Purpose of the site (edit action)"),
		),
		mcp.WithBoolean("rpaEnabled", mcp.Description("Enable or disable RPA (edit action)")),
		mcp.WithString("rpaLabel", mcp.Description("RPA label to use (edit action)")),
		mcp.WithString("rpaVersion", mcp.Description("RPA version to use (edit action)")),
		mcp.WithString("serverSize", mcp.Description("Server size (edit action)")),
		mcp.WithObject("siteProperties", mcp.Description("Custom properties for the site (edit action)")),
		mcp.WithString("subdomain", mcp.Description("Site subdomain (edit action)")),
		mcp.WithString("domain", mcp.Description("Site domain (edit action)")),

		// revert
		withRestoreSpec("Snapshot to restore from (revert action)"),

		// clone
		mcp.WithString("reason", mcp.Description("Reason for requesting the clone site (clone action)")),
		mcp.WithString("requestorFirstName", mcp.Description("First name of requestor (clone action)")),
		mcp.WithString("requestorLastName", mcp.Description("Last name of requestor (clone action)")),
		mcp.WithString("requestorEmail", mcp.Description("Email of requestor (clone action)")),
		mcp.WithString("supportCase", mcp.Description("Forum ticket number (clone action)")),
		mcp.WithString("topology", mcp.Enum(topologies...), mcp.Description("Site topology (clone action)")),
		withInteger("volumeSize", mcp.Description("Volume size in GB (clone/resize action)")),
		mcp.WithString("cluster", mcp.Description("Cluster name (clone action)")),
		mcp.WithBoolean("isWebAndEmailAccessible", mcp.Description("Allow web and email access for clone (clone action)")),

		// move
		mcp.WithString("region", mcp.Description("Target region (move action)")),
		mcp.WithString("email", mcp.Description("Email for notifications (move action)")),
	}
}

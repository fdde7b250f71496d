package sites

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	notAvailable       = "N/A"
	maxPropertiesShown = 5
	recordSeparator    = "=================================================="
)

// FormatSite renders one site record as multi-line text. Labels and
// properties keep the key order of the JSON document.
func FormatSite(site gjson.Result) string {
	var info []string
	add := func(format string, args ...any) {
		info = append(info, fmt.Sprintf(format, args...))
	}

	add("🏷️  Site ID: %s", field(site, "siteId"))
	add("🌐 Site URL: %s", field(site, "siteUrl"))
	add("📝 Subdomain: %s", field(site, "subdomain"))
	add("📊 Status: %s", field(site, "status"))
	add("🔄 Active: %s", yesNo(site.Get("isActive")))

	add("⚙️  Installer: %s", field(site, "installer"))
	if label := site.Get("installerLabel"); truthy(label) {
		add("🏷️  Installer Label: %s", render(label))
	}
	add("🌍 Region: %s", field(site, "region"))
	add("🖥️  Server Size: %s", field(site, "serverSize"))
	add("💾 Volume Size: %s GB", field(site, "volumeSize"))
	add("🏗️  Topology: %s", field(site, "topology"))

	add("🏢 Customer: %s", field(site, "customerName"))
	add("📁 Account: %s", field(site, "accountName"))
	add("🎯 Purpose: %s", field(site, "purpose"))

	add("📅 Created: %s", field(site, "createdOn"))
	add("👤 Created By: %s", field(site, "createdBy"))
	add("🔄 Updated: %s", field(site, "updatedOn"))
	add("👤 Updated By: %s", field(site, "updatedBy"))
	if started := site.Get("startedOn"); truthy(started) {
		add("🚀 Started: %s", render(started))
		if by := site.Get("startedBy"); truthy(by) {
			add("👤 Started By: %s", render(by))
		}
	}
	if shutdown := site.Get("shutdownOn"); truthy(shutdown) {
		add("🛑 Shutdown: %s", render(shutdown))
		if by := site.Get("shutdownBy"); truthy(by) {
			add("👤 Shutdown By: %s", render(by))
		}
	}

	if truthy(site.Get("rpaEnabled")) {
		add("🤖 RPA Enabled: Yes")
		if version := site.Get("rpaVersion"); truthy(version) {
			add("🤖 RPA Version: %s", render(version))
		}
		if label := site.Get("rpaLabel"); truthy(label) {
			add("🤖 RPA Label: %s", render(label))
		}
	} else {
		add("🤖 RPA Enabled: No")
	}

	add("🔒 Encrypted: %s", yesNo(site.Get("encrypted")))

	first, last := site.Get("requestorFirstName"), site.Get("requestorLastName")
	if truthy(first) || truthy(last) {
		add("👤 Requestor: %s", strings.TrimSpace(render(first)+" "+render(last)))
	}
	if email := site.Get("requestorEmail"); truthy(email) {
		add("📧 Requestor Email: %s", render(email))
	}

	if labels := site.Get("siteLabels"); truthy(labels) && labels.IsObject() {
		add("🏷️  Labels:")
		labels.ForEach(func(key, value gjson.Result) bool {
			add("   • %s: %s", key.String(), render(value))
			return true
		})
	}

	if props := site.Get("siteProperties"); truthy(props) && props.IsObject() {
		add("⚙️  Properties:")
		total := 0
		props.ForEach(func(_, _ gjson.Result) bool {
			total++
			return true
		})
		shown := 0
		props.ForEach(func(key, value gjson.Result) bool {
			if shown == maxPropertiesShown {
				add("   • ... and %d more properties", total-maxPropertiesShown)
				return false
			}
			add("   • %s: %s", key.String(), render(value))
			shown++
			return true
		})
	}

	if link := site.Get("recordLink"); truthy(link) {
		add("🔗 Record Link: %s", render(link))
	}

	return strings.Join(info, "\n")
}

// formatSiteList renders records one after another, each followed by a separator line
func formatSiteList(records []gjson.Result) string {
	var b strings.Builder
	for _, site := range records {
		b.WriteString(FormatSite(site))
		b.WriteString("\n")
		b.WriteString(recordSeparator)
		b.WriteString("\n")
	}
	return b.String()
}

// field returns the rendered value at key or N/A when absent or null
func field(site gjson.Result, key string) string {
	value := site.Get(key)
	if !value.Exists() || value.Type == gjson.Null {
		return notAvailable
	}
	return render(value)
}

func render(value gjson.Result) string {
	switch {
	case !value.Exists(), value.Type == gjson.Null:
		return ""
	case value.IsObject(), value.IsArray():
		return value.Raw
	default:
		return value.String()
	}
}

func yesNo(value gjson.Result) string {
	if truthy(value) {
		return "Yes"
	}
	return "No"
}

// truthy mirrors JSON truthiness: false, null, zero, "" and empty containers are false
func truthy(value gjson.Result) bool {
	switch value.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return value.Num != 0
	case gjson.String:
		return value.Str != ""
	case gjson.JSON:
		empty := true
		value.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	}
	return false
}

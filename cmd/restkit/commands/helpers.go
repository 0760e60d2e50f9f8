package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/restkit-io/restkit/pkg/rest"
	"github.com/restkit-io/restkit/pkg/restkit"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// createSite builds a Site from the effective configuration: flags,
// environment, and config file, in that order. A username without a
// stored password triggers an interactive prompt.
func createSite() (*rest.Site, error) {
	siteURL := viper.GetString("site")
	if siteURL == "" {
		return nil, rest.ErrSiteRequired
	}

	username := viper.GetString("user")
	password := viper.GetString("password")

	if username != "" && password == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Password: ")

		bytePassword, err := term.ReadPassword(int(syscall.Stdin))

		fmt.Fprintln(os.Stderr)

		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}

		password = string(bytePassword)
	}

	headers := map[string]string{}
	for k, v := range viper.GetStringMapString("headers") {
		headers[k] = v
	}

	return restkit.New(&restkit.Config{
		Site:      siteURL,
		Username:  username,
		Password:  password,
		Headers:   headers,
		Extension: viper.GetString("extension"),
	})
}

// parseAttrs converts "key=value" arguments into resource attributes.
// Values parse as numbers, booleans, or null where they look like one,
// and stay strings otherwise.
func parseAttrs(args []string) (map[string]interface{}, error) {
	attrs := make(map[string]interface{}, len(args))

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid attribute %q: expected key=value", arg)
		}

		attrs[key] = parseAttrValue(value)
	}

	return attrs, nil
}

func parseAttrValue(value string) interface{} {
	switch value {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return value
}

// parseParams converts repeated "key=value" flags into request options.
func parseParams(pairs []string) (*rest.Params, error) {
	params := rest.NewParams()

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}

		params.Add(key, value)
	}

	return params, nil
}

// renderResource writes a single resource in the configured output format.
func renderResource(resource *rest.Resource) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return writeJSON(resourceToNative(resource))
	case OutputFormatYAML:
		return yaml.NewEncoder(os.Stdout).Encode(resourceToNative(resource))
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Attribute", "Value")

		for _, name := range resource.AttrNames() {
			value, _ := resource.Attr(name)
			table.Append(name, attrDisplay(value))
		}

		return table.Render()
	}
}

// renderResources writes a collection. The table columns follow the
// attribute order of the first element.
func renderResources(resources []*rest.Resource) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		out := make([]interface{}, 0, len(resources))
		for _, r := range resources {
			out = append(out, resourceToNative(r))
		}

		return writeJSON(out)
	case OutputFormatYAML:
		out := make([]interface{}, 0, len(resources))
		for _, r := range resources {
			out = append(out, resourceToNative(r))
		}

		return yaml.NewEncoder(os.Stdout).Encode(out)
	default:
		if len(resources) == 0 {
			fmt.Println("No resources found")

			return nil
		}

		columns := resources[0].AttrNames()

		table := tablewriter.NewWriter(os.Stdout)

		header := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			header = append(header, col)
		}

		table.Header(header...)

		for _, r := range resources {
			row := make([]interface{}, 0, len(columns))
			for _, col := range columns {
				value, _ := r.Attr(col)
				row = append(row, attrDisplay(value))
			}

			table.Append(row...)
		}

		return table.Render()
	}
}

func writeJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// resourceToNative converts a resource into plain Go values suitable for
// the json and yaml encoders.
func resourceToNative(resource *rest.Resource) map[string]interface{} {
	out := make(map[string]interface{}, len(resource.AttrNames()))

	for _, name := range resource.AttrNames() {
		value, _ := resource.Attr(name)
		out[name] = valueToNative(value)
	}

	return out
}

func valueToNative(value interface{}) interface{} {
	switch v := value.(type) {
	case *rest.Resource:
		return resourceToNative(v)
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, el := range v {
			out = append(out, valueToNative(el))
		}

		return out
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}

		if f, err := v.Float64(); err == nil {
			return f
		}

		return v.String()
	default:
		return v
	}
}

func attrDisplay(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case *rest.Resource:
		if v.ID() != "" {
			return fmt.Sprintf("%s(%s)", v.TypeName(), v.ID())
		}

		return v.TypeName()
	case []interface{}:
		return fmt.Sprintf("%d items", len(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

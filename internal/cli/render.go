package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"akcli/pkg/diag"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func printInfo(w io.Writer, msg string) {
	fmt.Fprintln(w, msg)
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("Warning:"), msg)
}

func printError(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", text.FgRed.Sprint("Error:"), msg)
}

// printJSON renders v as indented JSON.
func printJSON(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("render JSON output: %w", err)
	}
	fmt.Fprintln(w, string(raw))
	return nil
}

// renderDigTable renders the answer section of a dig response. With short
// enabled only the record values are shown.
func renderDigTable(w io.Writer, answers []diag.DNSRecord, hostname, queryType string, short bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetCaption("Result of query: %s %s", queryType, hostname)

	if short {
		t.AppendHeader(table.Row{"Value"})
		for _, record := range answers {
			t.AppendRow(table.Row{record.Value})
		}
	} else {
		t.AppendHeader(table.Row{"Hostname", "TTL", "Class", "Type", "Value"})
		for _, record := range answers {
			t.AppendRow(table.Row{
				record.Hostname,
				record.TTL,
				record.RecordClass,
				record.RecordType,
				record.Value,
			})
		}
	}

	t.Render()
}

// renderTranslateTable renders the translation result as field/value rows.
// Log lines are deliberately excluded from the table output.
func renderTranslateTable(w io.Writer, resp *diag.TranslateResponse, id string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetCaption("Logs for reference ID: %s", id)

	for _, row := range translateRows(resp.Result) {
		t.AppendRow(table.Row{row[0], row[1]})
	}
	if len(resp.SuggestedActions) > 0 {
		t.AppendRow(table.Row{"Suggested Actions", strings.Join(resp.SuggestedActions, "\n")})
	}

	t.Render()
}

// translateRows flattens the translate result into ordered field/value
// pairs, skipping empty fields.
func translateRows(result diag.TranslateResult) [][2]string {
	var rows [][2]string
	add := func(field, value string) {
		if value != "" {
			rows = append(rows, [2]string{field, value})
		}
	}

	add("URL", result.URL)
	if result.HTTPResponseCode != 0 {
		add("HTTP Response Code", strconv.Itoa(result.HTTPResponseCode))
	}
	add("Date", result.Date)
	if result.EpochTime != 0 {
		add("Epoch Time", strconv.FormatInt(result.EpochTime, 10))
	}
	add("Client Request Method", result.ClientRequestMethod)
	add("Client IP", formatIP(result.ClientIP))
	add("Connecting IP", formatIP(result.ConnectingIP))
	add("Edge Server IP", formatIP(result.EdgeServerIP))
	add("Origin IP", result.OriginIP)
	if result.CPCode != 0 {
		add("CP Code", strconv.Itoa(result.CPCode))
	}
	add("Cache Key Hostname", result.CacheKeyHostname)
	add("Property Name", result.PropertyName)
	add("Property URL", result.PropertyURL)
	add("Reason For Failure", result.ReasonForFailure)
	add("User Agent", result.UserAgent)
	add("WAF Details", result.WAFDetails)
	add("WAF Details URL", result.WAFDetailsURL)
	add("WSA URL", result.WSAURL)
	add("Grep URL", result.GrepURL)

	return rows
}

// formatIP renders an IP with its location when known.
func formatIP(ip diag.IPInfo) string {
	if ip.IP == "" {
		return ""
	}

	var location []string
	if ip.Location.City != "" {
		location = append(location, ip.Location.City)
	}
	if ip.Location.CountryCode != "" {
		location = append(location, ip.Location.CountryCode)
	}
	if len(location) == 0 {
		return ip.IP
	}
	return fmt.Sprintf("%s (%s)", ip.IP, strings.Join(location, ", "))
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecord(w io.Writer, jsonMode bool, rec types.Record) error {
	if jsonMode {
		return printJSON(w, rec)
	}
	fmt.Fprintf(w, "%s %d\n", rec.ID, rec.Position)
	return nil
}

func printRecords(w io.Writer, jsonMode bool, recs []types.Record) error {
	if jsonMode {
		if recs == nil {
			recs = []types.Record{}
		}
		return printJSON(w, recs)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POSITION\tID\tPARENT\tNAME\tVISIBLE")
	for _, rec := range recs {
		parent := "-"
		if rec.ParentID != nil {
			parent = *rec.ParentID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", rec.Position, rec.ID, parent, rec.Name, rec.Visible)
	}
	return tw.Flush()
}

// parentArg turns a CLI parent ID into a scope pointer; "" and "-" mean no
// parent.
func parentArg(id string) *string {
	if id == "" || id == "-" {
		return nil
	}
	return &id
}

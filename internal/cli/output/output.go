package output

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/filehost/filehost/internal/cli/api"
)

// JSON prints v as indented JSON to stdout.
func JSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// FileTable prints a user's files as a table.
func FileTable(w io.Writer, files []api.File) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTORED AS\tSHARED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Originalname, f.Filename, YesNo(f.Shared))
	}
	tw.Flush()
}

func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ShareURL is the link a shared file is reachable at.
func ShareURL(serverURL, filename string) string {
	return strings.TrimRight(serverURL, "/") + "/api/shared/" + url.PathEscape(filename)
}

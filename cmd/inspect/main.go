package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/telemetry"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "politics_telemetry.db", "path to the telemetry database")
	last := flag.Int("last", 20, "show N most recent log entries")
	sessions := flag.Bool("sessions", false, "list sessions instead of entries")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *sessions {
		err = runSessions(db, *jsonOut)
	} else {
		err = runEntries(db, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region entries

func runEntries(db *sql.DB, last int, jsonOut bool) error {
	entries, err := telemetry.RecentEntries(db, last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no log entries found")
		return nil
	}

	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-10s  %4s  %-22s  %-20s  %s\n", "Session", "Day", "Action", "Value", "Time")
	fmt.Printf("%-10s+-%4s+-%-22s+-%-20s+-%s\n",
		"----------", "----", "----------------------", "--------------------", "--------------------")
	for _, e := range entries {
		fmt.Printf("%-10s  %4d  %-22s  %-20s  %s\n",
			shortID(e.SessionID), e.Day, e.Action, truncate(e.Value, 20),
			e.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion entries

// #region sessions

type sessionRow struct {
	SessionID string `json:"session_id"`
	Entries   int    `json:"entries"`
	MaxDay    int    `json:"max_day"`
}

func runSessions(db *sql.DB, jsonOut bool) error {
	byID, err := telemetry.Sessions(db)
	if err != nil {
		return err
	}
	if len(byID) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}

	rows := make([]sessionRow, 0, len(byID))
	for id, counts := range byID {
		rows = append(rows, sessionRow{SessionID: id, Entries: counts[0], MaxDay: counts[1]})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SessionID < rows[j].SessionID })

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-36s  %8s  %7s\n", "Session", "Entries", "Max Day")
	fmt.Printf("%-36s+-%8s+-%7s\n",
		"------------------------------------", "--------", "-------")
	for _, r := range rows {
		fmt.Printf("%-36s  %8d  %7d\n", r.SessionID, r.Entries, r.MaxDay)
	}
	return nil
}

// #endregion sessions

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// #endregion output

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

const usage = "Usage: tvp [-server URL] [-json] <health|version|schedule [YYYY-MM-DD]|detail <ref>|icon <name>|reports [limit]>"

func main() {
	baseURL := flag.String("server", envOr("TVP_SERVER_URL", "http://127.0.0.1:8080"), "URL du serveur (ex: http://127.0.0.1:8080)")
	timeout := flag.Duration("timeout", 30*time.Second, "Timeout HTTP")
	raw := flag.Bool("json", false, "Affiche la réponse JSON brute")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	client := &http.Client{Timeout: *timeout}
	api := strings.TrimRight(*baseURL, "/") + "/api/v1"

	switch args[0] {
	case "health":
		run(client, api+"/health")
	case "version":
		run(client, api+"/version")
	case "schedule":
		target := api + "/schedule"
		if len(args) > 1 {
			target += "?date=" + url.QueryEscape(args[1])
		}
		if *raw {
			run(client, target)
			return
		}
		printSchedule(client, target)
	case "detail":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		run(client, api+"/details?ref="+url.QueryEscape(args[1]))
	case "icon":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		run(client, api+"/icons/"+url.PathEscape(strings.Join(args[1:], " ")))
	case "reports":
		target := api + "/reports"
		if len(args) > 1 {
			if _, err := strconv.Atoi(args[1]); err != nil {
				fmt.Fprintln(os.Stderr, "limit invalide:", args[1])
				os.Exit(2)
			}
			target += "?limit=" + args[1]
		}
		run(client, target)
	default:
		fmt.Fprintln(os.Stderr, "Commande inconnue:", args[0])
		os.Exit(2)
	}
}

func get(client *http.Client, target string) (int, []byte) {
	resp, err := client.Get(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func run(client *http.Client, target string) {
	status, b := get(client, target)
	var pretty any
	if err := json.Unmarshal(b, &pretty); err == nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(pretty)
		if status >= 400 {
			os.Exit(1)
		}
		return
	}

	os.Stdout.Write(b)
	os.Stdout.Write([]byte("\n"))
	if status >= 400 {
		os.Exit(1)
	}
}

type scheduleResponse struct {
	Source  string `json:"source"`
	Day     string `json:"day"`
	Skipped int    `json:"skipped"`
	Entries []struct {
		Channel string `json:"channel"`
		Title   string `json:"title"`
		Start   string `json:"start"`
		Genre   string `json:"genre"`
		Ref     string `json:"ref"`
	} `json:"entries"`
}

// printSchedule affiche la grille en colonnes: heure, chaîne, titre, genre.
func printSchedule(client *http.Client, target string) {
	status, b := get(client, target)
	if status >= 400 {
		os.Stderr.Write(b)
		os.Stderr.Write([]byte("\n"))
		os.Exit(1)
	}
	var sched scheduleResponse
	if err := json.Unmarshal(b, &sched); err != nil {
		fmt.Fprintln(os.Stderr, "Réponse invalide:", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%s), %d diffusions\n", sched.Day, sched.Source, len(sched.Entries))
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range sched.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Start, e.Channel, e.Title, e.Genre)
	}
	_ = tw.Flush()
	if sched.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "%d éléments ignorés (voir -json)\n", sched.Skipped)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

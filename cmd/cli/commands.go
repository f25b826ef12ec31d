package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	game      string
	character string
)

func init() {
	leaderboardCmd.Flags().StringVar(&game, "game", "", "Game to rank (League or Deadlock)")
	leaderboardCmd.Flags().StringVar(&character, "character", "", "Only rank this character")
	leaderboardCmd.MarkFlagRequired("game")
	statsCmd.Flags().StringVar(&game, "game", "", "Only show this game")
	totalsCmd.Flags().StringVar(&game, "game", "", "Only combine this game")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(usageCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top 10 players per stat for a game",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/leaderboard" + query("game", game, "character", character))
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <user-id>",
	Short: "Show a user's stats per character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/users/" + url.PathEscape(args[0]) + "/stats" + query("game", game))
	},
}

var totalsCmd = &cobra.Command{
	Use:   "totals <user-id>",
	Short: "Show a user's stats combined across characters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/users/" + url.PathEscape(args[0]) + "/totals" + query("game", game))
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show how often each command has been used",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/usage")
	},
}

// query builds a query string from key/value pairs, skipping empty values.
func query(pairs ...string) string {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			values.Set(pairs[i], pairs[i+1])
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

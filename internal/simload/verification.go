package simload

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
)

// verifyRankings fetches each job's ranking and checks ordering invariants:
// scores descend and ranks are consecutive from 1.
func verifyRankings(ctx context.Context, config *Config, client *HTTPClient, jobs []Job, stats *Stats) error {
	log.Printf("Verifying rankings for %d jobs...", len(jobs))

	var retrieved, inconsistent int
	for _, job := range jobs {
		rankingURL := config.BaseURL + "/ranking/" + url.PathEscape(job.ID) + "?limit=" + strconv.Itoa(config.TopN)

		var entries []RankEntry
		if err := getAndDecode(ctx, client, rankingURL, &entries); err != nil {
			if config.Verbose {
				log.Printf("ranking for job %s failed: %v", job.ID, err)
			}
			continue
		}
		retrieved++

		if err := checkRankingOrder(entries); err != nil {
			inconsistent++
			log.Printf("ranking inconsistency for job %s: %v", job.ID, err)
		}
	}

	stats.RankingsRetrieved = retrieved
	if retrieved == 0 {
		return fmt.Errorf("no rankings retrieved")
	}
	if inconsistent > 0 {
		return fmt.Errorf("%d of %d rankings violated ordering", inconsistent, retrieved)
	}

	log.Printf("All %d rankings consistent", retrieved)
	return nil
}

// checkRankingOrder validates one ranking response.
func checkRankingOrder(entries []RankEntry) error {
	for i, entry := range entries {
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d, want %d", i, entry.Rank, i+1)
		}
		if i > 0 && entry.OverallScore > entries[i-1].OverallScore {
			return fmt.Errorf("entry %d score %.3f exceeds entry %d score %.3f",
				i, entry.OverallScore, i-1, entries[i-1].OverallScore)
		}
	}
	return nil
}

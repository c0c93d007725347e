package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tagmail/contact-cli/internal/model"
	"github.com/tagmail/contact-cli/pkg/bizdata"
	"github.com/tagmail/contact-cli/pkg/locationiq"
)

var (
	scrapeLocation string
	scrapeLat      string
	scrapeLon      string
	scrapeQuery    string
	scrapeDedupe   bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Import businesses near a location as contacts",
	Long:  "Geocodes a free-text location, fetches businesses matching the query near it, and ingests them as contacts tagged with the query.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("component", "cmd.scrape"))

		if scrapeQuery == "" {
			return eris.New("query is required")
		}
		if cfg.BizData.Key == "" {
			return eris.New("business data API key is required (CONTACT_BIZDATA_KEY)")
		}

		lat, lon := scrapeLat, scrapeLon
		if lat == "" || lon == "" {
			if scrapeLocation == "" {
				return eris.New("either --location or both --lat and --lon are required")
			}
			if cfg.LocationIQ.Key == "" {
				return eris.New("locationiq API key is required (CONTACT_LOCATIONIQ_KEY)")
			}

			geo := locationiq.NewClient(cfg.LocationIQ.Key,
				locationiq.WithBaseURL(cfg.LocationIQ.BaseURL),
				locationiq.WithRateLimit(cfg.LocationIQ.RateRPS),
			)
			options, err := geo.Search(ctx, scrapeLocation)
			if err != nil {
				return eris.Wrap(err, "location search")
			}
			if len(options) == 0 {
				return eris.Errorf("no location matches for %q", scrapeLocation)
			}
			lat, lon = options[0].Lat, options[0].Lon
			log.Info("location resolved",
				zap.String("label", options[0].Label),
				zap.String("lat", lat),
				zap.String("lon", lon),
			)
		}

		bizOpts := []bizdata.Option{bizdata.WithLimit(cfg.BizData.Limit)}
		if cfg.BizData.BaseURL != "" {
			bizOpts = append(bizOpts, bizdata.WithBaseURL(cfg.BizData.BaseURL))
		}
		biz := bizdata.NewClient(cfg.BizData.Key, cfg.BizData.Host, bizOpts...)
		records, err := biz.FetchBusinesses(ctx, scrapeQuery, lat, lon)
		if err != nil {
			return eris.Wrap(err, "fetch businesses")
		}

		// Records missing any of name/phone/website/address never become
		// rows; the rest go through the normal ingestion path.
		rows := make([]model.RawRow, 0, len(records))
		incomplete := 0
		for _, rec := range records {
			if !rec.Complete() {
				incomplete++
				continue
			}
			rows = append(rows, rec.ToRaw(scrapeQuery))
		}
		if incomplete > 0 {
			log.Info("dropped incomplete business records", zap.Int("count", incomplete))
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		owner := cfg.Store.Owner
		engine := newEngine(st, owner, scrapeDedupe)
		report := engine.RunSlice(ctx, rows, model.OriginAPI, storeWriter(st, owner))

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal report")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeLocation, "location", "", "free-text location to geocode")
	scrapeCmd.Flags().StringVar(&scrapeLat, "lat", "", "latitude (skips geocoding)")
	scrapeCmd.Flags().StringVar(&scrapeLon, "lon", "", "longitude (skips geocoding)")
	scrapeCmd.Flags().StringVar(&scrapeQuery, "query", "", "business search query, also used as the contact tag (required)")
	scrapeCmd.Flags().BoolVar(&scrapeDedupe, "dedupe", false, "skip rows whose (email, tag) already exists")
	_ = scrapeCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(scrapeCmd)
}

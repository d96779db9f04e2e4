// Command grmexport pulls green road features around a UK postcode from
// the TRF green road map tileset and writes them out as grouped GPX files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/davidhyman/green-lane-json/internal/adapters/cache"
	"github.com/davidhyman/green-lane-json/internal/adapters/geocode"
	"github.com/davidhyman/green-lane-json/internal/adapters/gpxfile"
	"github.com/davidhyman/green-lane-json/internal/adapters/mapbox"
	"github.com/davidhyman/green-lane-json/internal/adapters/vectortile"
	"github.com/davidhyman/green-lane-json/internal/config"
	"github.com/davidhyman/green-lane-json/internal/domain"
	"github.com/davidhyman/green-lane-json/internal/platform/db"
	"github.com/davidhyman/green-lane-json/internal/ports"
	"github.com/davidhyman/green-lane-json/internal/services"
)

// Groups are independent views over the same features: a lane may appear
// in several files, and the overlap is reported rather than rejected.
var groupRules = map[string]domain.GroupRule{
	"good":   {Select: domain.NewClassSet(domain.ClassFullAccess)},
	"closed": {Select: domain.NewClassSet(domain.ClassRestricted)},
	"dubious": {Deselect: domain.NewClassSet(
		domain.ClassFullAccess,
		domain.ClassRestricted,
	)},
	"not_closed": {Deselect: domain.NewClassSet(domain.ClassRestricted)},
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s POSTCODE RADIUS_KM\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	postcode := flag.Arg(0)
	radiusKM, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil || radiusKM <= 0 {
		log.Fatalf("radius must be a positive number of kilometers, got %q", flag.Arg(1))
	}

	config.Load()

	apiKey := os.Getenv("GRM_MAPBOX_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("GRM_MAPBOX_KEY is required")
	}

	dataset := config.Get("GRM_DATASET_ID", "trfgrm2023.grrtilesv6")
	layer := config.Get("GRM_LAYER", "grrlayer")
	outputDir := config.Get("GRM_OUTPUT_DIR", ".")

	zoom, err := config.GetInt("GRM_ZOOM", 11)
	if err != nil {
		log.Fatal(err)
	}
	concurrency, err := config.GetInt("GRM_CONCURRENCY", 5)
	if err != nil {
		log.Fatal(err)
	}
	maxTiles, err := config.GetInt("GRM_MAX_TILES", 256)
	if err != nil {
		log.Fatal(err)
	}
	tolerance, err := config.GetFloat("GRM_TOLERANCE", 0.0001)
	if err != nil {
		log.Fatal(err)
	}
	requestsPerSecond, err := config.GetFloat("GRM_REQUESTS_PER_SECOND", 10)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	geocoder := geocode.NewPostcodesClient()
	located, err := geocoder.Geocode(ctx, postcode)
	if err != nil {
		log.Fatalf("geocode %q: %v", postcode, err)
	}
	log.Printf("located postcode=%q place=%q lat=%f lon=%f",
		postcode, located.Place, located.Location.Lat, located.Location.Lon)

	source, err := mapbox.NewTileSource(apiKey, dataset, requestsPerSecond)
	if err != nil {
		log.Fatal(err)
	}

	tileCache, closeCache, err := buildCache(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	extractor := &services.Extractor{
		Source:            source,
		Cache:             tileCache,
		Decoder:           vectortile.NewDecoder(layer),
		Zoom:              zoom,
		Concurrency:       concurrency,
		MaxTiles:          maxTiles,
		SimplifyTolerance: tolerance,
	}

	result, err := extractor.Extract(ctx, located.Location, radiusKM*1000)
	if err != nil {
		log.Fatal(err)
	}

	r := result.Report
	log.Printf("tiles requested=%d ok=%d empty=%d failed=%d",
		r.TilesRequested, r.TilesOK, r.TilesEmpty, r.TilesFailed)
	log.Printf("features total=%d duplicates=%d selected=%d length_km=%.1f",
		r.FeaturesTotal, r.DuplicateFeatures, r.FeaturesSelected, float64(r.LengthMeters)/1000)
	log.Printf("simplified points=%d -> %d (%.1f%% compression)",
		r.PointsBefore, r.PointsAfter, r.CompressionPercent())

	groups, _ := services.Partition(result.Features, groupRules)
	for _, s := range sharedLanes(groups, 3) {
		log.Printf("lane %d appears in %d groups", s.grmuid, s.count)
	}

	if err := writeGroups(ctx, groups, postcode, radiusKM, outputDir); err != nil {
		log.Fatal(err)
	}
}

func writeGroups(
	ctx context.Context,
	groups map[string][]*domain.Feature,
	postcode string,
	radiusKM float64,
	outputDir string,
) error {
	writer := gpxfile.NewWriter(outputDir)
	author := authorName()
	now := time.Now()
	date := now.Format("2006-01-02")
	year := now.Format("2006")

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		features := groups[name]
		for _, multi := range []bool{false, true} {
			mode := "mono"
			if multi {
				mode = "multi"
			}
			title := exportTitle(postcode, radiusKM, date, name, mode)

			tc := services.Assemble(features, title, multi, author, year)
			if err := writer.Write(ctx, tc); err != nil {
				return err
			}
			log.Printf("wrote group=%s mode=%s lanes=%d title=%q", name, mode, len(features), title)
		}
	}

	return nil
}

// buildCache selects the tile cache backend from GRM_CACHE: fs (default),
// redis or postgres.
func buildCache(ctx context.Context) (ports.TileCache, func(), error) {
	backend := config.Get("GRM_CACHE", "fs")
	noop := func() {}

	switch backend {
	case "fs":
		return cache.NewFSCache(config.Get("GRM_CACHE_DIR", "_grmcache")), noop, nil

	case "redis":
		addr := config.Get("GRM_REDIS_ADDR", "localhost:6379")
		c := cache.NewRedisCache(addr)
		return c, func() { _ = c.Close() }, nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres cache")
		}
		pg, err := db.Open(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewPostgresCache(pg), func() { _ = pg.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// exportTitle names one output file. Postcodes are compacted so the title
// stays one token per field: "BS1 4ND" becomes "BS14ND".
func exportTitle(postcode string, radiusKM float64, date, group, mode string) string {
	compact := strings.ToUpper(strings.ReplaceAll(postcode, " ", ""))
	return fmt.Sprintf("TRF %s %gkm %s - %s %s", compact, radiusKM, date, group, mode)
}

type sharedLane struct {
	grmuid int64
	count  int
}

// sharedLanes reports lanes that land in more than one group, most shared
// first, capped at limit. The not_closed group is a catch-all that overlaps
// nearly everything, so it is left out of the count to keep the warning
// meaningful.
func sharedLanes(groups map[string][]*domain.Feature, limit int) []sharedLane {
	counts := make(map[int64]int)
	for name, features := range groups {
		if name == "not_closed" {
			continue
		}
		for _, f := range features {
			counts[f.GRMUID]++
		}
	}

	shared := make([]sharedLane, 0)
	for grmuid, count := range counts {
		if count > 1 {
			shared = append(shared, sharedLane{grmuid: grmuid, count: count})
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].count != shared[j].count {
			return shared[i].count > shared[j].count
		}
		return shared[i].grmuid < shared[j].grmuid
	})

	if len(shared) > limit {
		shared = shared[:limit]
	}
	return shared
}

func authorName() string {
	name := config.Get("GRM_AUTHOR", "")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	if name == "" {
		return "unknown author"
	}
	return titleCase(name)
}

func titleCase(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		r, size := utf8.DecodeRuneInString(f)
		fields[i] = string(unicode.ToUpper(r)) + f[size:]
	}
	return strings.Join(fields, " ")
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"html"
	"io"
	"io/fs"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"weather-desk/datasource"
	"weather-desk/geo"
	"weather-desk/logging"
	"weather-desk/models"
	"weather-desk/page"
	"weather-desk/panel"
	"weather-desk/queries"

	"github.com/joho/godotenv"
)

const usage = `commands:
  create <location> [start YYYY-MM-DD [end YYYY-MM-DD]]
  list
  view <id>
  edit <id>
  update <id> <location> [start [end]]
  delete <id>
  current [place] | current-at <lat> <lon>
  forecast [place] | forecast-at <lat> <lon>
  geo
  export json|csv [file]
  help
  quit`

// terminal answers dialogs on the console
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func (t *terminal) Alert(message string) {
	fmt.Fprintf(t.out, "! %s\n", message)
}

func (t *terminal) Confirm(message string) bool {
	fmt.Fprintf(t.out, "? %s [y/N] ", message)
	if !t.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(t.in.Text()))
	return answer == "y" || answer == "yes"
}

var (
	tags       = regexp.MustCompile(`<[^>]*>`)
	blankLines = regexp.MustCompile(`\n\s*\n+`)
)

// plain turns region markup into readable terminal text
func plain(markup string) string {
	text := html.UnescapeString(tags.ReplaceAllString(markup, " "))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n"))
}

type console struct {
	doc     *page.Document
	queries *queries.Manager
	panel   *panel.Panel
	out     io.Writer
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configFile := flag.String("config", "config.yaml", "Path to configuration file (.yaml or .json)")
	backendURL := flag.String("backend", "", "Backend base URL, overrides the configuration")
	flag.Parse()

	config, err := datasource.LoadConfig(*configFile)
	if errors.Is(err, fs.ErrNotExist) {
		config, err = datasource.DefaultConfig(), nil
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	if *backendURL != "" {
		config.Backend.BaseURL = *backendURL
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(config.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	store, weather := datasource.NewBackend(config, logger)
	locator, err := geo.New(config.Geo.Mode, config.Geo.Latitude, config.Geo.Longitude, config.Geo.IPURL)
	if err != nil {
		log.Fatalf("geolocation: %v", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	term := &terminal{in: scanner, out: os.Stdout}

	c := &console{
		doc:     page.New(term, config.Layout.Regions...),
		queries: queries.NewManager(store, logger),
		panel:   panel.New(weather, weather, locator, logger),
		out:     os.Stdout,
	}

	fmt.Println("Weather desk console")
	fmt.Println("====================")
	fmt.Printf("Backend: %s\n\n", config.Backend.BaseURL)

	ctx := context.Background()
	c.queries.LoadQueries(ctx, c.doc)
	c.flush()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := c.run(ctx, fields[0], fields[1:]); err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		c.flush()
	}
}

// flush prints every region the last command changed
func (c *console) flush() {
	for _, change := range c.doc.Changes() {
		text := plain(string(change.HTML))
		if text == "" {
			continue
		}
		fmt.Fprintf(c.out, "[%s]\n%s\n", change.ID, text)
	}
	if url := c.doc.Navigation(); url != "" {
		fmt.Fprintf(c.out, "-> %s\n", url)
		c.doc.Assign("")
	}
}

func (c *console) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(c.out, usage)
	case "list":
		c.queries.LoadQueries(ctx, c.doc)
	case "create":
		loc, sd, ed, err := locationAndRange(args)
		if err != nil {
			return err
		}
		c.doc.Lookup(queries.RegionLocation).SetValue(loc)
		c.doc.Lookup(queries.RegionStart).SetValue(sd)
		c.doc.Lookup(queries.RegionEnd).SetValue(ed)
		c.queries.CreateQuery(ctx, c.doc)
	case "view", "edit", "delete":
		id, err := queryID(args)
		if err != nil {
			return err
		}
		switch cmd {
		case "view":
			c.queries.ViewQuery(ctx, c.doc, id)
		case "edit":
			c.queries.EditQuery(ctx, c.doc, id)
		default:
			c.queries.DeleteQuery(ctx, c.doc, id)
		}
	case "update":
		id, err := queryID(args)
		if err != nil {
			return err
		}
		loc, sd, ed, err := locationAndRange(args[1:])
		if err != nil {
			return err
		}
		c.doc.Mount(queries.RegionEditLoc).SetValue(loc)
		c.doc.Mount(queries.RegionEditStart).SetValue(sd)
		c.doc.Mount(queries.RegionEditEnd).SetValue(ed)
		c.doc.Mount(queries.RegionUpdateMsg)
		c.doc.Mount(queries.RegionUpdateErr)
		c.queries.UpdateQuery(ctx, c.doc, id)
	case "current", "forecast":
		c.doc.Lookup(panel.RegionPlace).SetValue(strings.Join(args, " "))
		if cmd == "current" {
			c.panel.FetchCurrent(ctx, c.doc, nil)
		} else {
			c.panel.FetchForecast(ctx, c.doc, nil)
		}
	case "current-at", "forecast-at":
		coords, err := coordinates(args)
		if err != nil {
			return err
		}
		if cmd == "current-at" {
			c.panel.FetchCurrent(ctx, c.doc, coords)
		} else {
			c.panel.FetchForecast(ctx, c.doc, coords)
		}
	case "geo":
		c.panel.UseGeo(ctx, c.doc)
	case "export":
		if len(args) == 0 {
			return errors.New("usage: export json|csv [file]")
		}
		data, err := c.queries.ExportQueries(ctx, args[0])
		if err != nil {
			return err
		}
		if len(args) > 1 {
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "wrote %d bytes to %s\n", len(data), args[1])
			return nil
		}
		c.out.Write(data)
		fmt.Fprintln(c.out)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func queryID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing query id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid query id %q", args[0])
	}
	return id, nil
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// locationAndRange splits "<location words...> [start [end]]".
// Missing dates stay empty and are left to the backend to reject.
func locationAndRange(args []string) (loc, start, end string, err error) {
	if len(args) == 0 {
		return "", "", "", errors.New("need a location")
	}
	n := len(args)
	var dates []string
	for n > 0 && len(dates) < 2 && isoDate.MatchString(args[n-1]) {
		dates = append([]string{args[n-1]}, dates...)
		n--
	}
	if len(dates) > 0 {
		start = dates[0]
	}
	if len(dates) > 1 {
		end = dates[1]
	}
	return strings.Join(args[:n], " "), start, end, nil
}

func coordinates(args []string) (*models.Coordinates, error) {
	if len(args) != 2 {
		return nil, errors.New("need <lat> <lon>")
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}

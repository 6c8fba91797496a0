package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"fyne.io/fyne/v2/app"
	"github.com/gregjones/httpcache"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ErikKalkoken/trailbuddy/internal/app/advisor"
	"github.com/ErikKalkoken/trailbuddy/internal/app/background"
	"github.com/ErikKalkoken/trailbuddy/internal/app/catalog"
	"github.com/ErikKalkoken/trailbuddy/internal/app/mapengine"
	"github.com/ErikKalkoken/trailbuddy/internal/app/progress"
	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
	"github.com/ErikKalkoken/trailbuddy/internal/app/storage"
	"github.com/ErikKalkoken/trailbuddy/internal/app/ui"
)

const appID = "io.github.erikkalkoken.trailbuddy"

// defined flags
var (
	levelFlag     logLevelFlag
	debugFlag     = flag.Bool("debug", false, "Show additional debug information")
	logFileFlag   = flag.Bool("logfile", true, "Write logs to a file instead of the console")
	offlineFlag   = flag.Bool("offline", false, "Start without network features")
	uninstallFlag = flag.Bool("uninstall", false, "Uninstalls the app by deleting all user files")
	showDirsFlag  = flag.Bool("show-dirs", false, "Show directories where user data is stored")
)

func init() {
	levelFlag.value = slog.LevelInfo
	flag.Var(&levelFlag, "loglevel", "set log level")
}

func main() {
	flag.Parse()
	slog.SetLogLoggerLevel(levelFlag.value)
	if *debugFlag {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	fyneApp := app.NewWithID(appID)
	ad := newAppDirs(fyneApp)
	if *showDirsFlag {
		fmt.Printf("Database: %s\n", ad.data)
		fmt.Printf("Cache: %s\n", ad.cache)
		fmt.Printf("Logs: %s\n", ad.log)
		fmt.Printf("Settings: %s\n", ad.settings)
		return
	}
	if *uninstallFlag {
		fmt.Print("Are you sure you want to uninstall this app and delete all user files (y/N)?")
		var input string
		fmt.Scanln(&input)
		if strings.ToLower(input) == "y" {
			if err := ad.deleteAll(); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("App uninstalled")
		} else {
			fmt.Println("Aborted")
		}
		return
	}
	if *logFileFlag {
		fn, err := ad.initLogFile()
		if err != nil {
			log.Fatal(err)
		}
		log.SetOutput(&lumberjack.Logger{
			Filename:   fn,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
		})
	}
	dsn, err := ad.initDSN()
	if err != nil {
		log.Fatal(err)
	}
	dbRW, dbRO, err := storage.InitDB(dsn)
	if err != nil {
		log.Fatalf("Failed to initialize database %s: %s", dsn, err)
	}
	defer dbRW.Close()
	defer dbRO.Close()
	st := storage.New(dbRW, dbRO)

	logoDir, err := ad.initLogoDir()
	if err != nil {
		log.Fatal(err)
	}
	sv := settings.New(st, logoDir)
	defer sv.Close()
	pr := progress.New(st)

	ctx := context.Background()
	var g errgroup.Group
	g.Go(func() error {
		sv.Load(ctx)
		return nil
	})
	g.Go(func() error {
		pr.Load(ctx)
		return nil
	})
	g.Wait()

	ct, err := catalog.New()
	if err != nil {
		log.Fatalf("Failed to load task catalog: %s", err)
	}

	rc := retryablehttp.NewClient()
	rc.Logger = slog.Default()
	rc.ResponseLogHook = logResponse
	advisorClient := rc.StandardClient()
	imageClient := &http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
	}

	bg := background.New(sv, imageClient)
	defer bg.Close()

	inbox := mapengine.NewInbox()
	me := mapengine.New(sv, ad.mapImagePath(), inbox)
	defer me.Close()

	u := ui.NewBaseUI(fyneApp)
	u.Advisor = advisor.New(advisorClient, advisor.DefaultBaseURL)
	u.Background = bg
	u.Catalog = ct
	u.MapEngine = me
	u.Progress = pr
	u.SelectionInbox = inbox
	u.Settings = sv
	u.Init()

	me.Start()
	if !*offlineFlag {
		bg.Start()
	}
	u.ShowAndRun()
}

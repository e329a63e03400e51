// Command dmiweb serves the states of an icon over HTTP.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-dmi/paths"
	"badc0de.net/pkg/go-dmi/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for dmiweb")
	banner        = flag.Bool("banner", true, "whether to print a banner on startup")

	dmiPath  string
	maskPath string
)

func setupFilePathFlags() {
	paths.SetupFilePathFlag("icon.dmi", "dmi_path", &dmiPath)
	paths.SetupFilePathFlag("mask.png", "mask_path", &maskPath)
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if dmiPath == "" {
		glog.Exitf("no icon found; pass --dmi_path")
	}
	if _, err := os.Stat(dmiPath); err != nil {
		glog.Exitf("cannot serve icon: %v", err)
	}

	if *banner {
		figure.NewFigure("dmiweb", "", true).Print()
		fmt.Println()
	}

	r := mux.NewRouter()
	web.NewHandler(dmiPath, maskPath).RegisterRoutes(r)
	// golang.org/x/net/trace registers /debug/requests and /debug/events
	// on the default mux.
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)

	glog.Infof("serving %q (mask %q) on %s", dmiPath, maskPath, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.LoggingHandler(os.Stderr, handlers.CompressHandler(r))))
}

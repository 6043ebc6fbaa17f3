package main

import (
	"bytes"
	"flag"
	"net/http"

	"github.com/golang/glog"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/pflag"
	geos "github.com/tingold/orb-geos"
)

type City struct {
	Name      string
	Longitude float64
	Latitude  float64
}

// route is a rough path across western Europe.
var route = []City{
	{"London", -0.1276, 51.5074},
	{"Paris", 2.3522, 48.8566},
	{"Berlin", 13.4050, 52.5200},
	{"Vienna", 16.3738, 48.2082},
	{"Rome", 12.4964, 41.9028},
}

var (
	addr        = pflag.String("addr", ":8080", "listen address")
	srid        = pflag.Int("srid", 4326, "SRID of the sample geometries")
	includeSRID = pflag.Bool("include-srid", false, "embed the SRID in WKB output")
	byteOrder   = pflag.String("byte-order", "ndr", "WKB byte order, ndr or xdr")
	dims        = pflag.Int("dims", 2, "WKB output dimensions, 2 or 3")
	offset      = pflag.Float64("offset", 0.5, "offset curve distance in degrees")
	gridSize    = pflag.Float64("grid", 0.01, "grid size the route is snapped to")
)

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	defer glog.Flush()

	order, err := geos.ParseByteOrder(*byteOrder)
	if err != nil {
		glog.Fatalf("Invalid byte order: %v", err)
	}
	wkb, err := geos.NewWKBWriter(
		geos.WithIncludeSRID(*includeSRID),
		geos.WithOutputDimensions(*dims),
		geos.WithByteOrder(order),
	)
	if err != nil {
		glog.Fatalf("Failed to create WKB writer: %v", err)
	}

	ctx := geos.NewContext(&geos.Options{
		SRIDPolicy: geos.SRIDPolicyKeep,
		Features:   geos.AllFeatures,
	})
	coords := make([][]float64, 0, len(route))
	for _, c := range route {
		coords = append(coords, []float64{c.Longitude, c.Latitude})
	}
	cs, err := geos.NewCoordSeq(2, coords...)
	if err != nil {
		glog.Fatalf("Failed to build route: %v", err)
	}
	line, err := ctx.CreateLineString(cs)
	if err != nil {
		glog.Fatalf("Failed to build route: %v", err)
	}
	line.SetSRID(*srid)
	if err := line.SnapToGridInPlace(geos.UniformGrid(*gridSize)); err != nil {
		glog.Fatalf("Failed to snap route: %v", err)
	}

	left, err := line.OffsetCurve(*offset, geos.WithJoinStyle(geos.JoinRound))
	if err != nil {
		glog.Fatalf("Failed to offset route: %v", err)
	}
	area, err := line.ToPolygon()
	if err != nil {
		glog.Fatalf("Failed to close route: %v", err)
	}

	var layer bytes.Buffer
	err = geos.ExportFlatGeobuf(&layer, []*geos.Geometry{line.Geometry, left.Geometry, area.Geometry}, &geos.LayerOptions{
		Name:         "route",
		Description:  "Sample route, its offset curve and the area it encloses",
		IncludeIndex: true,
		CRS:          geos.WGS84(),
	})
	if err != nil {
		glog.Fatalf("Failed to create FlatGeobuf: %v", err)
	}

	http.HandleFunc("/route.wkb", func(w http.ResponseWriter, r *http.Request) {
		b, err := wkb.Write(line)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(b)
	})
	http.HandleFunc("/route.hex", func(w http.ResponseWriter, r *http.Request) {
		// Hex output always carries the SRID.
		s, err := wkb.WriteHex(line, geos.WithIncludeSRID(true))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(s))
	})
	http.HandleFunc("/route.geojson", func(w http.ResponseWriter, r *http.Request) {
		fc := geojson.NewFeatureCollection()
		for name, g := range map[string]*geos.Geometry{"route": line.Geometry, "offset": left.Geometry, "area": area.Geometry} {
			o, err := g.Orb()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			f := geojson.NewFeature(o)
			f.Properties = geojson.Properties{"name": name, "srid": g.SRID()}
			fc.Append(f)
		}
		b, err := fc.MarshalJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(b)
	})
	http.HandleFunc("/route.fgb", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(layer.Bytes())
	})

	glog.Infof("Server starting on %s", *addr)
	glog.Fatal(http.ListenAndServe(*addr, nil))
}

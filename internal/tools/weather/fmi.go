package weather

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// DefaultBaseURL is the FMI open data WFS endpoint.
const DefaultBaseURL = "https://opendata.fmi.fi/wfs"

const storedQueryCities = "fmi::observations::weather::cities::multipointcoverage"

// FMIClient fetches surface weather observations from the FMI open data WFS.
type FMIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFMIClient(baseURL string) *FMIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FMIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Observation is one station's measurement row at one instant. Values are
// keyed by the WFS parameter code (t2m, ws_10min, ...); NaN rows are dropped
// at parse time.
type Observation struct {
	Station string
	Coord   geom.Coord // lon, lat
	Time    time.Time
	Values  map[string]float64
}

// CityObservations runs the cities stored query for place and returns the
// parsed observations. Transport failures are retried a few times with
// exponential backoff; HTTP error statuses are not (the query itself is bad).
func (c *FMIClient) CityObservations(ctx context.Context, place string) ([]Observation, error) {
	q := url.Values{}
	q.Set("service", "WFS")
	q.Set("version", "2.0.0")
	q.Set("request", "getFeature")
	q.Set("storedquery_id", storedQueryCities)
	q.Set("place", place)
	endpoint := c.baseURL + "?" + q.Encode()

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("fmi: build request: %w", err))
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fmi: request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, backoff.Permanent(fmt.Errorf("fmi: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fmi: read body: %w", err)
		}
		return data, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(3))
	if err != nil {
		return nil, err
	}

	return parseMultiPointCoverage(body)
}

// multipoint coverage layout: station points carry names and coordinates,
// the positions block repeats "lat lon epoch" per row, and the tuple list
// holds one value per rangeType field per row.
type coverageDoc struct {
	XMLName   xml.Name        `xml:"FeatureCollection"`
	Points    []stationPoint  `xml:"member>GridSeriesObservation>featureOfInterest>SF_SpatialSamplingFeature>shape>MultiPoint>pointMembers>Point"`
	Positions string          `xml:"member>GridSeriesObservation>result>MultiPointCoverage>domainSet>SimpleMultiPoint>positions"`
	Tuples    string          `xml:"member>GridSeriesObservation>result>MultiPointCoverage>rangeSet>DataBlock>doubleOrNilReasonTupleList"`
	Fields    []coverageField `xml:"member>GridSeriesObservation>result>MultiPointCoverage>rangeType>DataRecord>field"`
}

type stationPoint struct {
	Name string `xml:"name"`
	Pos  string `xml:"pos"`
}

type coverageField struct {
	Name string `xml:"name,attr"`
}

func parseMultiPointCoverage(data []byte) ([]Observation, error) {
	var doc coverageDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fmi: parse response: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("fmi: no observation fields in response")
	}

	stations, err := parseStations(doc.Points)
	if err != nil {
		return nil, err
	}

	posTokens := strings.Fields(doc.Positions)
	if len(posTokens)%3 != 0 {
		return nil, fmt.Errorf("fmi: positions block not in lat/lon/time triples (%d tokens)", len(posTokens))
	}
	rows := len(posTokens) / 3

	valTokens := strings.Fields(doc.Tuples)
	if len(valTokens) != rows*len(doc.Fields) {
		return nil, fmt.Errorf("fmi: %d values for %d rows of %d fields", len(valTokens), rows, len(doc.Fields))
	}

	obs := make([]Observation, 0, rows)
	for row := 0; row < rows; row++ {
		lat, err1 := strconv.ParseFloat(posTokens[row*3], 64)
		lon, err2 := strconv.ParseFloat(posTokens[row*3+1], 64)
		epoch, err3 := strconv.ParseInt(posTokens[row*3+2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("fmi: bad position row %d", row)
		}

		coord := geom.Coord{lon, lat}
		values := map[string]float64{}
		for col, field := range doc.Fields {
			v, err := strconv.ParseFloat(valTokens[row*len(doc.Fields)+col], 64)
			if err != nil || v != v { // skip NaN and nil-reason tokens
				continue
			}
			values[field.Name] = v
		}

		obs = append(obs, Observation{
			Station: nearestStation(stations, coord),
			Coord:   coord,
			Time:    time.Unix(epoch, 0).UTC(),
			Values:  values,
		})
	}
	return obs, nil
}

type station struct {
	name  string
	coord geom.Coord
}

func parseStations(points []stationPoint) ([]station, error) {
	stations := make([]station, 0, len(points))
	for _, p := range points {
		fields := strings.Fields(p.Pos)
		if len(fields) < 2 {
			return nil, fmt.Errorf("fmi: station %q has malformed position %q", p.Name, p.Pos)
		}
		lat, err1 := strconv.ParseFloat(fields[0], 64)
		lon, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("fmi: station %q has malformed position %q", p.Name, p.Pos)
		}
		stations = append(stations, station{name: p.Name, coord: geom.Coord{lon, lat}})
	}
	return stations, nil
}

// nearestStation names an observation row by the closest station point.
// Rows repeat the station coordinates exactly, so this is normally an exact
// match; distance breaks ties when coordinates are rounded differently.
func nearestStation(stations []station, coord geom.Coord) string {
	best := ""
	bestDist := -1.0
	for _, s := range stations {
		d := xy.Distance(s.coord, coord)
		if bestDist < 0 || d < bestDist {
			best = s.name
			bestDist = d
		}
	}
	return best
}

package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/twpayne/go-geom"
)

const sampleCoverage = `<?xml version="1.0" encoding="UTF-8"?>
<wfs:FeatureCollection
    xmlns:wfs="http://www.opengis.net/wfs/2.0"
    xmlns:gml="http://www.opengis.net/gml/3.2"
    xmlns:om="http://www.opengis.net/om/2.0"
    xmlns:omso="http://inspire.ec.europa.eu/schemas/omso/3.0"
    xmlns:sams="http://www.opengis.net/samplingSpatial/2.0"
    xmlns:gmlcov="http://www.opengis.net/gmlcov/1.0"
    xmlns:swe="http://www.opengis.net/swe/2.0">
  <wfs:member>
    <omso:GridSeriesObservation gml:id="WFS-1">
      <om:featureOfInterest>
        <sams:SF_SpatialSamplingFeature gml:id="sf-1">
          <sams:shape>
            <gml:MultiPoint gml:id="mp-1">
              <gml:pointMembers>
                <gml:Point gml:id="p1">
                  <gml:name>Lappeenranta lentoasema</gml:name>
                  <gml:pos>61.044601 28.144500</gml:pos>
                </gml:Point>
                <gml:Point gml:id="p2">
                  <gml:name>Helsinki Kaisaniemi</gml:name>
                  <gml:pos>60.175230 24.944590</gml:pos>
                </gml:Point>
              </gml:pointMembers>
            </gml:MultiPoint>
          </sams:shape>
        </sams:SF_SpatialSamplingFeature>
      </om:featureOfInterest>
      <om:result>
        <gmlcov:MultiPointCoverage gml:id="mpcv-1">
          <gml:domainSet>
            <gmlcov:SimpleMultiPoint gml:id="smp-1" srsDimension="3">
              <gmlcov:positions>
                61.044601 28.144500 1750000000
                61.044601 28.144500 1750000600
                60.175230 24.944590 1750000600
              </gmlcov:positions>
            </gmlcov:SimpleMultiPoint>
          </gml:domainSet>
          <gml:rangeSet>
            <gml:DataBlock>
              <gml:rangeParameters/>
              <gml:doubleOrNilReasonTupleList>
                20.1 3.2
                21.3 2.5
                18.4 NaN
              </gml:doubleOrNilReasonTupleList>
            </gml:DataBlock>
          </gml:rangeSet>
          <gmlcov:rangeType>
            <swe:DataRecord>
              <swe:field name="t2m"/>
              <swe:field name="ws_10min"/>
            </swe:DataRecord>
          </gmlcov:rangeType>
        </gmlcov:MultiPointCoverage>
      </om:result>
    </omso:GridSeriesObservation>
  </wfs:member>
</wfs:FeatureCollection>`

func TestParseMultiPointCoverage(t *testing.T) {
	obs, err := parseMultiPointCoverage([]byte(sampleCoverage))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("observations = %d, want 3", len(obs))
	}

	first := obs[0]
	if first.Station != "Lappeenranta lentoasema" {
		t.Errorf("station = %q", first.Station)
	}
	if !first.Time.Equal(time.Unix(1750000000, 0)) {
		t.Errorf("time = %v", first.Time)
	}
	if first.Values["t2m"] != 20.1 || first.Values["ws_10min"] != 3.2 {
		t.Errorf("values = %#v", first.Values)
	}

	// NaN wind speed in the Helsinki row must be dropped, not stored
	helsinki := obs[2]
	if helsinki.Station != "Helsinki Kaisaniemi" {
		t.Errorf("station = %q", helsinki.Station)
	}
	if _, ok := helsinki.Values["ws_10min"]; ok {
		t.Error("NaN value should not be present")
	}
	if helsinki.Values["t2m"] != 18.4 {
		t.Errorf("values = %#v", helsinki.Values)
	}
}

func TestParseMultiPointCoverage_ValueCountMismatch(t *testing.T) {
	broken := []byte(`<?xml version="1.0"?>
<FeatureCollection xmlns:x="urn:x">
  <member><GridSeriesObservation>
    <result><MultiPointCoverage>
      <domainSet><SimpleMultiPoint><positions>61.0 28.1 1750000000</positions></SimpleMultiPoint></domainSet>
      <rangeSet><DataBlock><doubleOrNilReasonTupleList>20.1</doubleOrNilReasonTupleList></DataBlock></rangeSet>
      <rangeType><DataRecord><field name="t2m"/><field name="ws_10min"/></DataRecord></rangeType>
    </MultiPointCoverage></result>
  </GridSeriesObservation></member>
</FeatureCollection>`)
	if _, err := parseMultiPointCoverage(broken); err == nil {
		t.Fatal("expected error for value/row mismatch")
	}
}

func TestNearestStation(t *testing.T) {
	stations := []station{
		{name: "A", coord: geom.Coord{24.9, 60.2}},
		{name: "B", coord: geom.Coord{28.1, 61.0}},
	}
	if got := nearestStation(stations, geom.Coord{28.14, 61.04}); got != "B" {
		t.Fatalf("nearest = %q, want B", got)
	}
	if got := nearestStation(nil, geom.Coord{0, 0}); got != "" {
		t.Fatalf("nearest of none = %q, want empty", got)
	}
}

func TestCityObservations_QueryShape(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(sampleCoverage))
	}))
	defer ts.Close()

	c := NewFMIClient(ts.URL)
	obs, err := c.CityObservations(context.Background(), "Lappeenranta")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("observations = %d, want 3", len(obs))
	}
	if gotQuery["storedquery_id"] != storedQueryCities {
		t.Errorf("storedquery_id = %q", gotQuery["storedquery_id"])
	}
	if gotQuery["place"] != "Lappeenranta" {
		t.Errorf("place = %q", gotQuery["place"])
	}
	if gotQuery["request"] != "getFeature" {
		t.Errorf("request = %q", gotQuery["request"])
	}
}

func TestCityObservations_ErrorStatusNotRetried(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "no such stored query", http.StatusBadRequest)
	}))
	defer ts.Close()

	if _, err := NewFMIClient(ts.URL).CityObservations(context.Background(), "Nowhere"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (4xx must not be retried)", calls)
	}
}

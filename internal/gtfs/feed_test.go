package gtfs

import (
	"archive/zip"
	"bytes"
	"maps"
	"testing"

	"github.com/jamespfennell/gtfs"
	"github.com/stretchr/testify/require"
)

// testFeed is a small feed with two routes. R1 runs A-B-C where "fast"
// overtakes "slow", R2 has a block continuation from "early" at C and a
// frequency based trip D-E. Stop A belongs to station STA.
var testFeed = map[string]string{
	"agency.txt": `agency_id,agency_name,agency_url,agency_timezone
AG,Test Transit,http://example.com,UTC
`,
	"routes.txt": `route_id,agency_id,route_short_name,route_type
R1,AG,1,3
R2,AG,2,3
`,
	"stops.txt": `stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station
STA,Central Station,47.6000,-122.3300,1,
A,Stop A,47.6000,-122.3300,0,STA
B,Stop B,47.6020,-122.3300,0,
C,Stop C,47.6100,-122.3300,0,
D,Stop D,47.6102,-122.3300,0,
E,Stop E,47.7000,-122.3300,0,
`,
	"calendar.txt": `service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WK,1,1,1,1,1,0,0,20250101,20251231
WE,0,0,0,0,0,1,1,20250101,20251231
`,
	"calendar_dates.txt": `service_id,date,exception_type
WK,20250704,2
WE,20250704,1
`,
	"trips.txt": `route_id,service_id,trip_id,block_id
R1,WK,slow,
R1,WK,fast,
R1,WK,early,BLK
R2,WK,link,BLK
R1,WE,weekend,
R2,WK,freq,
R1,WK,broken,
`,
	"stop_times.txt": `trip_id,arrival_time,departure_time,stop_id,stop_sequence,pickup_type,drop_off_type
slow,08:00:00,08:00:00,A,1,0,0
slow,08:10:00,08:10:00,B,2,0,0
slow,08:30:00,08:30:00,C,3,0,0
fast,08:05:00,08:05:00,A,1,0,0
fast,08:12:00,08:12:00,B,2,0,0
fast,08:20:00,08:20:00,C,3,0,0
early,07:00:00,07:00:00,A,1,0,0
early,07:05:00,07:05:00,B,2,0,0
early,07:10:00,07:10:00,C,3,0,0
link,07:15:00,07:15:00,C,1,0,1
link,07:25:00,07:25:00,D,2,0,0
weekend,09:00:00,09:00:00,A,1,0,0
weekend,09:05:00,09:05:00,B,2,0,0
weekend,09:10:00,09:10:00,C,3,0,0
freq,00:00:00,00:00:00,D,1,0,0
freq,00:10:00,00:10:00,E,2,0,0
broken,12:00:00,12:00:00,A,1,0,0
broken,11:50:00,11:50:00,B,2,0,0
`,
	"frequencies.txt": `trip_id,start_time,end_time,headway_secs
freq,10:00:00,10:30:00,600
`,
	"transfers.txt": `from_stop_id,to_stop_id,transfer_type,min_transfer_time
B,A,3,
C,D,2,180
E,B,1,
`,
}

// feedZip zips the feed files, with overrides replacing or adding files.
func feedZip(t *testing.T, overrides map[string]string) []byte {
	t.Helper()
	files := maps.Clone(testFeed)
	maps.Copy(files, overrides)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func parseFeed(t *testing.T) *gtfs.Static {
	t.Helper()
	static, err := gtfs.ParseStatic(feedZip(t, nil), gtfs.ParseStaticOptions{})
	require.NoError(t, err)
	return static
}

package statistics

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/metrics/counter"
)

const (
	CacheKeyCompressions = "statistics:compressions"
	CacheKeyLevels       = "statistics:compressions:levels"
	CacheKeyFormats      = "statistics:compressions:formats"

	fieldTotal    = "total"
	fieldFailed   = "failed"
	fieldCrops    = "crops"
	fieldBytesIn  = "bytes_original"
	fieldBytesOut = "bytes_compressed"
	dailyFieldFmt = "day:2006-01-02"
)

// StatisticsData is the payload of the stats endpoint.
type StatisticsData struct {
	TodayCompressions  int64            `json:"today_compressions"`
	TotalCompressions  int64            `json:"total_compressions"`
	FailedCompressions int64            `json:"failed_compressions"`
	Crops              int64            `json:"crops"`
	OriginalBytes      int64            `json:"original_bytes"`
	CompressedBytes    int64            `json:"compressed_bytes"`
	SavedBytes         int64            `json:"saved_bytes"`
	OriginalHuman      string           `json:"original_human"`
	CompressedHuman    string           `json:"compressed_human"`
	SavedHuman         string           `json:"saved_human"`
	ByLevel            map[string]int64 `json:"by_level"`
	ByFormat           map[string]int64 `json:"by_format"`
}

var now = time.Now

// RecordCompression counts one successful compression.
func RecordCompression(result models.CompressionResult) {
	counter.Add(CacheKeyCompressions, fieldTotal, 1)
	counter.Add(CacheKeyCompressions, now().Format(dailyFieldFmt), 1)
	counter.Add(CacheKeyCompressions, fieldBytesIn, result.Reduction.OriginalBytes)
	counter.Add(CacheKeyCompressions, fieldBytesOut, result.Reduction.CompressedBytes)
	counter.Add(CacheKeyLevels, string(result.Settings.Level), 1)
	counter.Add(CacheKeyFormats, string(result.Settings.OutputFormat), 1)
}

// RecordFailure counts one failed compression.
func RecordFailure() {
	counter.Add(CacheKeyCompressions, fieldFailed, 1)
}

// RecordCrop counts one applied crop.
func RecordCrop() {
	counter.Add(CacheKeyCompressions, fieldCrops, 1)
}

// GetStatisticsData returns all statistics data as StatisticsData structure
func GetStatisticsData() StatisticsData {
	c := counter.All(CacheKeyCompressions)
	data := StatisticsData{
		TodayCompressions:  c[now().Format(dailyFieldFmt)],
		TotalCompressions:  c[fieldTotal],
		FailedCompressions: c[fieldFailed],
		Crops:              c[fieldCrops],
		OriginalBytes:      c[fieldBytesIn],
		CompressedBytes:    c[fieldBytesOut],
		ByLevel:            counter.All(CacheKeyLevels),
		ByFormat:           counter.All(CacheKeyFormats),
	}
	data.SavedBytes = data.OriginalBytes - data.CompressedBytes
	data.OriginalHuman = FormatBytes(data.OriginalBytes)
	data.CompressedHuman = FormatBytes(data.CompressedBytes)
	data.SavedHuman = FormatBytes(data.SavedBytes)
	return data
}

// FormatBytes renders a byte count with binary units ("1.5 MiB"). Negative
// values keep their sign.
func FormatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

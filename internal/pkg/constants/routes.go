package constants

// Static route constants
const (
	PublicRoute    = "/"
	UploadRoute    = "/upload"
	CompressRoute  = "/compress"
	StartOverRoute = "/start-over"
	MetricsRoute   = "/metrics"
	DocsRoute      = "/docs/api/"

	APIPrefix = "/api/v1"
	// Asset routes the page links to
	OriginalAssetRoute   = APIPrefix + "/workspace/original"
	CompressedAssetRoute = APIPrefix + "/workspace/compressed"
	DownloadRoute        = APIPrefix + "/workspace/download"
	SnapshotRoute        = APIPrefix + "/viewer/snapshot.png"
	ViewerRoutePrefix    = APIPrefix + "/viewer/"
)

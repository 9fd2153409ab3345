package race

// Lane and track layout, in canvas pixels. These match the browser shell that
// draws the race.
const (
	LaneMarginLeft   = 20.0 // lane 1 starts here
	LaneGutter       = 60.0 // total horizontal space not given to lanes
	MinLaneWidth     = 40.0
	LaneCenterOffset = 10.0 // lane 2 starts at width/2 + offset

	ShortFinishInset = 40.0 // finish line distance from the bottom of a short track
	LongFinishInset  = 60.0

	DefaultCanvasWidth  = 600.0
	DefaultCanvasHeight = 500.0
	DefaultTrackLength  = 4000.0

	CameraLeadFraction = 0.4 // leading body sits this far down the visible area
	CameraSmoothing    = 0.1 // fraction of the remaining distance covered per frame
)

// Obstacle placement.
const (
	WallPadding        = 30.0 // obstacles keep at least this far from the lane walls
	ObstacleMinRadius  = 8.0
	ObstacleRadiusSpan = 6.0 // radius = min + rand*span
	ObstacleMaxRadius  = ObstacleMinRadius + ObstacleRadiusSpan
	PassageMargin      = 2.0 // every gap a body must fit through is at least its diameter plus this

	// rows policy
	ObstacleRows        = 8
	RowsStartY          = 80.0
	RowsFinishClearance = 40.0 // last row sits this far above the finish line
	RowMinObstacles     = 2
	RowExtraObstacles   = 2    // 2 + floor(rand*2) => 2 or 3 per row
	RowMinSeparation    = 40.0 // raised to the passage width when bodies are larger
	RowPlacementRetries = 20
	RowLongSpacing      = 60.0 // long tracks get one row per this many pixels

	// scatter policy
	ScatterStartY         = 120.0
	ScatterEndInset       = 100.0        // stop this far above the finish line
	ScatterDensity        = 1.0 / 9000.0 // obstacles per square pixel of lane span
	ScatterMinObstacles   = 10
	ScatterMinSeparation  = 60.0 // raised to the passage width when bodies are larger
	ScatterPlacementRetry = 50
)

// Body identity.
const (
	BodyStartY       = 30.0
	BodyInitialSpeed = 1.0 // |vx| at start is below this
	DefaultLabel1    = "Option 1"
	DefaultLabel2    = "Option 2"
	Lane1Color       = "#4a90d9"
	Lane2Color       = "#e74c3c"
)

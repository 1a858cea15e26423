package models

// WaterQualityMetrics are the household sensor readings fed to the AI boundary
type WaterQualityMetrics struct {
	PH          float64 `json:"ph"`
	TDS         float64 `json:"tds"`
	Turbidity   float64 `json:"turbidity"`
	Temperature float64 `json:"temperature"`
}

// RecommendationStatus grades recycled water
type RecommendationStatus string

const (
	RecommendationExcellent RecommendationStatus = "Excellent"
	RecommendationGood      RecommendationStatus = "Good"
	RecommendationCaution   RecommendationStatus = "Caution"
	RecommendationUnsafe    RecommendationStatus = "Unsafe"
)

// RecommendationStatuses in severity order
var RecommendationStatuses = []RecommendationStatus{
	RecommendationExcellent, RecommendationGood, RecommendationCaution, RecommendationUnsafe,
}

// AIRecommendation is the water reuse insight returned by the model
type AIRecommendation struct {
	Status         RecommendationStatus `json:"status"`
	Recommendation string               `json:"recommendation"`
	SuitableUses   []string             `json:"suitableUses"`
	UnsuitableUses []string             `json:"unsuitableUses"`
	Explanation    string               `json:"explanation"`
}

// SystemHealthStatus grades a recycling unit component
type SystemHealthStatus string

const (
	HealthOptimal  SystemHealthStatus = "Optimal"
	HealthDegraded SystemHealthStatus = "Degraded"
	HealthCritical SystemHealthStatus = "Critical"
)

// SystemHealthStatuses in severity order
var SystemHealthStatuses = []SystemHealthStatus{HealthOptimal, HealthDegraded, HealthCritical}

// SystemHealthData is the unit telemetry fed to predictive maintenance
type SystemHealthData struct {
	FilterPressure      float64 `json:"filterPressure"`
	PumpUptimeHours     float64 `json:"pumpUptimeHours"`
	WaterTurbidityTrend string  `json:"waterTurbidityTrend"`
}

// PredictiveAlert is the predictive maintenance result returned by the model
type PredictiveAlert struct {
	Component      string             `json:"component"`
	Status         SystemHealthStatus `json:"status"`
	Prediction     string             `json:"prediction"`
	Recommendation string             `json:"recommendation"`
}

// HistoricalDataPoint is one bucket of usage and quality history
type HistoricalDataPoint struct {
	Date    string  `json:"date"`
	Usage   float64 `json:"usage"`
	Quality float64 `json:"quality"`
}

// CommunityOverview summarises the community dashboard
type CommunityOverview struct {
	TotalHouseholds int     `json:"totalHouseholds"`
	WaterSaved      float64 `json:"waterSaved"`
	ActiveAlerts    int     `json:"activeAlerts"`
}

// MaintenanceTask is a scheduled community maintenance job
type MaintenanceTask struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

// PollutionHotspot is an area with repeated pollution reports
type PollutionHotspot struct {
	ID           int    `json:"id"`
	Location     string `json:"location"`
	Severity     string `json:"severity"`
	LastReported string `json:"lastReported"`
}

// CommunityData is the shape of the community JSON export
type CommunityData struct {
	Overview               CommunityOverview     `json:"overview"`
	MaintenanceTasks       []MaintenanceTask     `json:"maintenanceTasks"`
	PollutionHotspots      []PollutionHotspot    `json:"pollutionHotspots"`
	HistoricalWaterQuality []HistoricalDataPoint `json:"historicalWaterQuality"`
}

// FreshwaterConservationData is one row of the researcher conservation dataset
type FreshwaterConservationData struct {
	ID                int     `json:"id"`
	LocationType      string  `json:"locationType"`
	PopulationDensity string  `json:"populationDensity"`
	LPCD              string  `json:"lpcd"`
	FreshwaterSaved   float64 `json:"freshwaterSaved"`
}

// WaterSaved totals in litres
type WaterSaved struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Total float64 `json:"total"`
}

// TankLevel of a single tank in litres
type TankLevel struct {
	Current  float64 `json:"current"`
	Capacity float64 `json:"capacity"`
}

// Percent full, 0 for a tank without capacity
func (t TankLevel) Percent() float64 {
	if t.Capacity <= 0 {
		return 0
	}
	return t.Current / t.Capacity * 100
}

// TankLevels of the greywater collection and clean storage tanks
type TankLevels struct {
	Collection TankLevel `json:"collection"`
	Storage    TankLevel `json:"storage"`
}

// HouseholdMetrics is the household dashboard snapshot
type HouseholdMetrics struct {
	WaterQuality WaterQualityMetrics `json:"waterQuality"`
	WaterSaved   WaterSaved          `json:"waterSaved"`
	TankLevels   TankLevels          `json:"tankLevels"`
}

// Indicator is a traffic-light status
type Indicator string

const (
	IndicatorGreen  Indicator = "green"
	IndicatorYellow Indicator = "yellow"
	IndicatorRed    Indicator = "red"
)

// AnomalyReading is one sample from the household water sensors
type AnomalyReading struct {
	DO        float64 `json:"do"`
	Turbidity float64 `json:"turbidity"`
	TDS       float64 `json:"tds"`
	ORP       float64 `json:"orp"`
}

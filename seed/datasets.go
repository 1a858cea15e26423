package seed

import "ecowatch/models"

func WeeklyUsage() []models.HistoricalDataPoint {
	return []models.HistoricalDataPoint{
		{Date: "Mon", Usage: 180, Quality: 92},
		{Date: "Tue", Usage: 210, Quality: 91},
		{Date: "Wed", Usage: 190, Quality: 93},
		{Date: "Thu", Usage: 220, Quality: 89},
		{Date: "Fri", Usage: 250, Quality: 90},
		{Date: "Sat", Usage: 280, Quality: 88},
		{Date: "Sun", Usage: 260, Quality: 91},
	}
}

func HistoricalWaterQuality() []models.HistoricalDataPoint {
	return []models.HistoricalDataPoint{
		{Date: "Jan", Usage: 4000, Quality: 85},
		{Date: "Feb", Usage: 3000, Quality: 88},
		{Date: "Mar", Usage: 5000, Quality: 82},
		{Date: "Apr", Usage: 4500, Quality: 90},
		{Date: "May", Usage: 4800, Quality: 91},
		{Date: "Jun", Usage: 5200, Quality: 87},
		{Date: "Jul", Usage: 6000, Quality: 85},
	}
}

func CommunityData() models.CommunityData {
	return models.CommunityData{
		Overview: models.CommunityOverview{TotalHouseholds: 128, WaterSaved: 45000, ActiveAlerts: 3},
		MaintenanceTasks: []models.MaintenanceTask{
			{ID: 1, Description: "Central filter inspection", AssignedTo: "Team A", Status: "Completed", DueDate: "2023-10-25"},
			{ID: 2, Description: "Pump calibration at Sector B", AssignedTo: "John Doe", Status: "In Progress", DueDate: "2023-11-05"},
			{ID: 3, Description: "Sensor check at household #42", AssignedTo: "Jane Smith", Status: "Pending", DueDate: "2023-11-10"},
			{ID: 4, Description: "Community pipeline flush", AssignedTo: "Team B", Status: "Pending", DueDate: "2023-11-12"},
		},
		PollutionHotspots: []models.PollutionHotspot{
			{ID: 1, Location: "Near Industrial Park", Severity: "High", LastReported: "2023-11-02"},
			{ID: 2, Location: "Creek outlet, Sector D", Severity: "Medium", LastReported: "2023-11-01"},
		},
		HistoricalWaterQuality: HistoricalWaterQuality(),
	}
}

func HouseholdMetrics() models.HouseholdMetrics {
	return models.HouseholdMetrics{
		WaterQuality: models.WaterQualityMetrics{PH: 7.2, TDS: 250, Turbidity: 4.5, Temperature: 22},
		WaterSaved:   models.WaterSaved{Today: 150, Week: 980, Month: 4200, Total: 35000},
		TankLevels: models.TankLevels{
			Collection: models.TankLevel{Current: 180, Capacity: 300},
			Storage:    models.TankLevel{Current: 450, Capacity: 500},
		},
	}
}

// SystemHealth is the unit telemetry used for predictive maintenance
func SystemHealth() models.SystemHealthData {
	return models.SystemHealthData{FilterPressure: 18, PumpUptimeHours: 750, WaterTurbidityTrend: "increasing"}
}

func ConservationData() []models.FreshwaterConservationData {
	return []models.FreshwaterConservationData{
		{ID: 1, LocationType: "Urban", PopulationDensity: "High", LPCD: "High", FreshwaterSaved: 120000},
		{ID: 2, LocationType: "Suburban", PopulationDensity: "Medium", LPCD: "Medium", FreshwaterSaved: 150000},
		{ID: 3, LocationType: "Rural", PopulationDensity: "Low", LPCD: "High", FreshwaterSaved: 80000},
		{ID: 4, LocationType: "Urban", PopulationDensity: "High", LPCD: "Medium", FreshwaterSaved: 220000},
		{ID: 5, LocationType: "Suburban", PopulationDensity: "Medium", LPCD: "Low", FreshwaterSaved: 180000},
		{ID: 6, LocationType: "Urban", PopulationDensity: "Medium", LPCD: "Medium", FreshwaterSaved: 95000},
		{ID: 7, LocationType: "Rural", PopulationDensity: "Low", LPCD: "Low", FreshwaterSaved: 110000},
	}
}

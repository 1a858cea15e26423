package gemini

import (
	"fmt"
	"strconv"

	"ecowatch/models"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func waterReusePrompt(m models.WaterQualityMetrics) string {
	return fmt.Sprintf(`Analyze the following water quality metrics for a household greywater recycling system.
- pH: %s
- Total Dissolved Solids (TDS): %s ppm
- Turbidity: %s NTU
- Temperature: %s°C

Based on these metrics, provide a JSON response with the following structure:
{
  "status": "Excellent" | "Good" | "Caution" | "Unsafe",
  "recommendation": "A short, actionable recommendation for the user.",
  "suitableUses": ["A list of suitable non-potable uses, e.g., 'Toilet flushing', 'Garden irrigation'"],
  "unsuitableUses": ["A list of unsuitable uses, e.g., 'Drinking', 'Bathing'"],
  "explanation": "A brief explanation of why the water is in its current state and why the recommendations are made."
}

Guidelines:
- pH should ideally be between 6.5 and 8.5.
- TDS should be below 500 ppm for general use.
- Turbidity should be below 5 NTU.
- Status should be 'Excellent' if all metrics are optimal, 'Good' if slightly off but safe for most uses, 'Caution' if one or more metrics are borderline, and 'Unsafe' if any metric indicates a potential hazard for reuse.
- Suitable uses can include toilet flushing, garden irrigation (for non-edible plants), cleaning floors.
- Unsuitable uses always include drinking, cooking, bathing, and irrigating edible plants if quality is not excellent.
`, num(m.PH), num(m.TDS), num(m.Turbidity), num(m.Temperature))
}

func predictiveMaintenancePrompt(h models.SystemHealthData) string {
	return fmt.Sprintf(`Analyze the following system health data from a household greywater recycling unit:
- Filter Pressure: %s PSI (Normal range: 5-15 PSI)
- Pump Uptime: %s hours (Recommended checkup every 800 hours)
- Water Turbidity Trend: %s

Based on this data, provide a JSON response with a predictive maintenance alert. The structure should be:
{
  "component": "The primary component at risk (e.g., 'Filter', 'Pump').",
  "status": "Optimal" | "Degraded" | "Critical",
  "prediction": "A concise prediction of the potential issue (e.g., 'Filter is likely to clog within the next 48 hours.').",
  "recommendation": "A clear, actionable recommendation for the user (e.g., 'Schedule a backwash cycle for the filter system.')."
}

Guidelines:
- If pressure is > 15 PSI, the filter is a primary concern. Status is likely 'Degraded' or 'Critical'.
- If pump uptime is approaching or has exceeded 800 hours, it's a concern. Status is 'Degraded'.
- If turbidity is 'increasing' and pressure is high, it's a critical filter issue.
- If all values are normal, the status is 'Optimal', and the prediction should be positive.
`, num(h.FilterPressure), num(h.PumpUptimeHours), h.WaterTurbidityTrend)
}

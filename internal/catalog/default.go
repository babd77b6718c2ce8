package catalog

import (
	"hrdash/domain/dataset"
	"hrdash/internal/views"
)

func bars(n int, title, metric string) Chart {
	return Chart{Number: n, Title: title, Style: StyleGroupedBar,
		View: views.Request{Metric: metric, Group: dataset.ColAttrition, Kind: views.KindCount}}
}

func histogram(n int, title, metric string, bins int) Chart {
	return Chart{Number: n, Title: title, Style: StyleHistogram,
		View: views.Request{Metric: metric, Group: dataset.ColAttrition, Kind: views.KindHistogram, Bins: bins}}
}

func box(n int, title, metric string) Chart {
	return Chart{Number: n, Title: title, Style: StyleBox,
		View: views.Request{Metric: metric, Group: dataset.ColAttrition, Kind: views.KindSummary, IncludePoints: true}}
}

// Default is the employee attrition dashboard: twenty charts in four tabs,
// filterable by department, gender and overtime.
func Default() *Catalog {
	return &Catalog{
		Title: "Employee Attrition Dashboard",
		Description: "This dashboard provides key insights to help HR understand attrition patterns " +
			"and trends across different factors.",
		Filters: []string{dataset.ColDepartment, dataset.ColGender, dataset.ColOverTime},
		Tabs: []Tab{
			{
				Key:      "overview",
				Title:    "Overview",
				Subtitle: "Employee Distribution & Demographics",
				Charts: []Chart{
					bars(1, "Count of Employees by Department", dataset.ColDepartment),
					{Number: 2, Title: "Gender Distribution", Style: StylePie,
						View: views.Request{Metric: dataset.ColGender, Kind: views.KindCount}},
					bars(3, "Attrition by Marital Status", dataset.ColMaritalStatus),
					bars(4, "Education Field Breakdown", dataset.ColEducationField),
					histogram(5, "Age Distribution", dataset.ColAge, 20),
				},
			},
			{
				Key:      "performance",
				Title:    "Performance & Satisfaction",
				Subtitle: "Job Satisfaction and Performance",
				Charts: []Chart{
					box(6, "Job Satisfaction vs Attrition", dataset.ColJobSatisfaction),
					box(7, "Environment Satisfaction vs Attrition", dataset.ColEnvironmentSatisfaction),
					bars(8, "Training Times Last Year", dataset.ColTrainingTimesLastYear),
					bars(9, "OverTime vs Attrition", dataset.ColOverTime),
					box(10, "Job Involvement", dataset.ColJobInvolvement),
				},
			},
			{
				Key:      "compensation",
				Title:    "Compensation",
				Subtitle: "Compensation and Rewards",
				Charts: []Chart{
					histogram(11, "Monthly Income Distribution", dataset.ColMonthlyIncome, 30),
					box(12, "Percent Salary Hike", dataset.ColPercentSalaryHike),
					bars(13, "Stock Option Level", dataset.ColStockOptionLevel),
					histogram(14, "Daily Rate Distribution", dataset.ColDailyRate, 20),
					histogram(15, "Hourly Rate Distribution", dataset.ColHourlyRate, 20),
				},
			},
			{
				Key:      "tenure",
				Title:    "Tenure",
				Subtitle: "Tenure and Career Progression",
				Charts: []Chart{
					box(16, "Years at Company vs Attrition", dataset.ColYearsAtCompany),
					box(17, "Years in Current Role", dataset.ColYearsInCurrentRole),
					box(18, "Years Since Last Promotion", dataset.ColYearsSinceLastPromotion),
					box(19, "Years With Current Manager", dataset.ColYearsWithCurrManager),
					box(20, "Total Working Years", dataset.ColTotalWorkingYears),
				},
			},
		},
	}
}

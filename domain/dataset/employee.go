package dataset

// Column names of the HR attrition dataset referenced by code.
const (
	ColAge                     = "Age"
	ColAttrition               = "Attrition"
	ColDailyRate               = "DailyRate"
	ColDepartment              = "Department"
	ColEducationField          = "EducationField"
	ColEnvironmentSatisfaction = "EnvironmentSatisfaction"
	ColGender                  = "Gender"
	ColHourlyRate              = "HourlyRate"
	ColJobInvolvement          = "JobInvolvement"
	ColJobSatisfaction         = "JobSatisfaction"
	ColMaritalStatus           = "MaritalStatus"
	ColMonthlyIncome           = "MonthlyIncome"
	ColOverTime                = "OverTime"
	ColPercentSalaryHike       = "PercentSalaryHike"
	ColStockOptionLevel        = "StockOptionLevel"
	ColTotalWorkingYears       = "TotalWorkingYears"
	ColTrainingTimesLastYear   = "TrainingTimesLastYear"
	ColYearsAtCompany          = "YearsAtCompany"
	ColYearsInCurrentRole      = "YearsInCurrentRole"
	ColYearsSinceLastPromotion = "YearsSinceLastPromotion"
	ColYearsWithCurrManager    = "YearsWithCurrManager"
)

func categorical(name string, levels ...string) Column {
	return Column{Name: name, Kind: KindCategorical, Levels: levels}
}

func numeric(name string) Column {
	return Column{Name: name, Kind: KindNumeric}
}

// scale is a small integer rating such as a 1-4 satisfaction score
func scale(name string) Column {
	return Column{Name: name, Kind: KindNumeric, Ordinal: true}
}

// EmployeeSchema is the fixed schema of the employee attrition export (EA.csv).
func EmployeeSchema() *Schema {
	return MustSchema(
		numeric(ColAge),
		categorical(ColAttrition, "No", "Yes"),
		categorical("BusinessTravel", "Non-Travel", "Travel_Rarely", "Travel_Frequently"),
		numeric(ColDailyRate),
		categorical(ColDepartment),
		numeric("DistanceFromHome"),
		scale("Education"),
		categorical(ColEducationField),
		numeric("EmployeeCount"),
		numeric("EmployeeNumber"),
		scale(ColEnvironmentSatisfaction),
		categorical(ColGender),
		numeric(ColHourlyRate),
		scale(ColJobInvolvement),
		scale("JobLevel"),
		categorical("JobRole"),
		scale(ColJobSatisfaction),
		categorical(ColMaritalStatus),
		numeric(ColMonthlyIncome),
		numeric("MonthlyRate"),
		numeric("NumCompaniesWorked"),
		categorical("Over18"),
		categorical(ColOverTime),
		numeric(ColPercentSalaryHike),
		scale("PerformanceRating"),
		scale("RelationshipSatisfaction"),
		numeric("StandardHours"),
		scale(ColStockOptionLevel),
		numeric(ColTotalWorkingYears),
		scale(ColTrainingTimesLastYear),
		scale("WorkLifeBalance"),
		numeric(ColYearsAtCompany),
		numeric(ColYearsInCurrentRole),
		numeric(ColYearsSinceLastPromotion),
		numeric(ColYearsWithCurrManager),
	)
}

package testkit

import (
	"math"
	"math/rand"

	"hrdash/domain/dataset"
)

// EmployeeGeneratorConfig configures the synthetic HR attrition generator
type EmployeeGeneratorConfig struct {
	Rows          int     `json:"rows"`
	Seed          int64   `json:"seed"`
	AttritionBase float64 `json:"attrition_base"` // attrition probability of a baseline employee
	MissingRate   float64 `json:"missing_rate"`   // per-cell null probability, EmployeeNumber excluded
}

// DefaultEmployeeConfig matches the size and attrition rate of the public
// IBM HR sample (1470 rows, roughly 16% attrition)
func DefaultEmployeeConfig() EmployeeGeneratorConfig {
	return EmployeeGeneratorConfig{
		Rows:          1470,
		Seed:          42,
		AttritionBase: 0.10,
	}
}

// EmployeeGenerator generates rows that follow dataset.EmployeeSchema with
// plausible correlations: overtime, low satisfaction, youth and single status
// raise attrition; income tracks job level; tenure fields nest inside each other.
type EmployeeGenerator struct {
	config EmployeeGeneratorConfig
	schema *dataset.Schema
	rng    *rand.Rand
}

// NewEmployeeGenerator creates a generator. The same config always yields the same table.
func NewEmployeeGenerator(config EmployeeGeneratorConfig) *EmployeeGenerator {
	return &EmployeeGenerator{
		config: config,
		schema: dataset.EmployeeSchema(),
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the table
func (g *EmployeeGenerator) Generate() (*dataset.Table, error) {
	g.rng = rand.New(rand.NewSource(g.config.Seed))
	columns := g.schema.Columns()

	rows := make([][]dataset.Value, g.config.Rows)
	for i := range rows {
		rec := g.employee(i + 1)
		row := make([]dataset.Value, len(columns))
		for c, col := range columns {
			v := rec[col.Name]
			if col.Name != "EmployeeNumber" && g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate {
				v = dataset.NullValue()
			}
			row[c] = v
		}
		rows[i] = row
	}
	return dataset.New(g.schema, rows)
}

var (
	departments = []weighted{{"Research & Development", 0.65}, {"Sales", 0.30}, {"Human Resources", 0.05}}
	travel      = []weighted{{"Non-Travel", 0.10}, {"Travel_Rarely", 0.71}, {"Travel_Frequently", 0.19}}
	marital     = []weighted{{"Married", 0.46}, {"Single", 0.32}, {"Divorced", 0.22}}
	fields      = []weighted{
		{"Life Sciences", 0.41}, {"Medical", 0.32}, {"Marketing", 0.11},
		{"Technical Degree", 0.09}, {"Other", 0.05}, {"Human Resources", 0.02},
	}
	roles = map[string][]weighted{
		"Research & Development": {
			{"Research Scientist", 0.30}, {"Laboratory Technician", 0.27}, {"Manufacturing Director", 0.15},
			{"Healthcare Representative", 0.14}, {"Research Director", 0.08}, {"Manager", 0.06},
		},
		"Sales":           {{"Sales Executive", 0.73}, {"Sales Representative", 0.18}, {"Manager", 0.09}},
		"Human Resources": {{"Human Resources", 0.83}, {"Manager", 0.17}},
	}
)

type weighted struct {
	label  string
	weight float64
}

func (g *EmployeeGenerator) pick(options []weighted) string {
	r := g.rng.Float64()
	acc := 0.0
	for _, o := range options {
		acc += o.weight
		if r < acc {
			return o.label
		}
	}
	return options[len(options)-1].label
}

// between returns an integer in [lo, hi]
func (g *EmployeeGenerator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

func num(n int) dataset.Value { return dataset.Number(float64(n)) }

func (g *EmployeeGenerator) employee(number int) map[string]dataset.Value {
	age := int(math.Round(37 + g.rng.NormFloat64()*9))
	age = min(max(age, 18), 60)

	dept := g.pick(departments)
	role := g.pick(roles[dept])
	status := g.pick(marital)

	jobLevel := min(max(1+(age-18)/10+g.between(-1, 1), 1), 5)
	if role == "Manager" || role == "Research Director" {
		jobLevel = max(jobLevel, 4)
	}
	income := jobLevel*3300 + g.between(-1200, 2500)
	income = max(income, 1009)

	totalYears := min(g.between(0, age-18), 40)
	atCompany := g.between(0, totalYears)
	inRole := g.between(0, atCompany)
	sincePromotion := g.between(0, atCompany)
	withManager := g.between(0, atCompany)

	overtime := g.rng.Float64() < 0.28
	jobSat := g.between(1, 4)
	envSat := g.between(1, 4)
	balance := g.between(1, 4)
	stock := g.between(0, 3)
	if status == "Single" {
		stock = 0
	}

	logit := math.Log(g.config.AttritionBase / (1 - g.config.AttritionBase))
	if overtime {
		logit += 1.3
	}
	if jobSat == 1 {
		logit += 0.5
	}
	if envSat == 1 {
		logit += 0.4
	}
	if balance == 1 {
		logit += 0.5
	}
	if age < 30 {
		logit += 0.6
	}
	if status == "Single" {
		logit += 0.5
	}
	logit -= 0.3 * float64(jobLevel-1)
	attrition := "No"
	if g.rng.Float64() < 1/(1+math.Exp(-logit)) {
		attrition = "Yes"
	}

	hike := g.between(11, 25)
	rating := 3
	if hike >= 20 {
		rating = 4
	}

	gender := "Male"
	if g.rng.Float64() < 0.4 {
		gender = "Female"
	}
	yesNo := "No"
	if overtime {
		yesNo = "Yes"
	}

	return map[string]dataset.Value{
		dataset.ColAge:                     num(age),
		dataset.ColAttrition:               dataset.Text(attrition),
		"BusinessTravel":                   dataset.Text(g.pick(travel)),
		dataset.ColDailyRate:               num(g.between(102, 1499)),
		dataset.ColDepartment:              dataset.Text(dept),
		"DistanceFromHome":                 num(g.between(1, 29)),
		"Education":                        num(g.between(1, 5)),
		dataset.ColEducationField:          dataset.Text(g.pick(fields)),
		"EmployeeCount":                    num(1),
		"EmployeeNumber":                   num(number),
		dataset.ColEnvironmentSatisfaction: num(envSat),
		dataset.ColGender:                  dataset.Text(gender),
		dataset.ColHourlyRate:              num(g.between(30, 100)),
		dataset.ColJobInvolvement:          num(g.between(1, 4)),
		"JobLevel":                         num(jobLevel),
		"JobRole":                          dataset.Text(role),
		dataset.ColJobSatisfaction:         num(jobSat),
		dataset.ColMaritalStatus:           dataset.Text(status),
		dataset.ColMonthlyIncome:           num(income),
		"MonthlyRate":                      num(g.between(2094, 26999)),
		"NumCompaniesWorked":               num(g.between(0, 9)),
		"Over18":                           dataset.Text("Y"),
		dataset.ColOverTime:                dataset.Text(yesNo),
		dataset.ColPercentSalaryHike:       num(hike),
		"PerformanceRating":                num(rating),
		"RelationshipSatisfaction":         num(g.between(1, 4)),
		"StandardHours":                    num(80),
		dataset.ColStockOptionLevel:        num(stock),
		dataset.ColTotalWorkingYears:       num(totalYears),
		dataset.ColTrainingTimesLastYear:   num(g.between(0, 6)),
		"WorkLifeBalance":                  num(balance),
		dataset.ColYearsAtCompany:          num(atCompany),
		dataset.ColYearsInCurrentRole:      num(inRole),
		dataset.ColYearsSinceLastPromotion: num(sincePromotion),
		dataset.ColYearsWithCurrManager:    num(withManager),
	}
}

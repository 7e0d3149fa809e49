package projections

import (
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/application/chartdata"
	domainEnrollment "studio/internal/domain/enrollment"
	domainEquipment "studio/internal/domain/equipment"
	domainIncome "studio/internal/domain/income"
	domainStaff "studio/internal/domain/staff"
	domainStudent "studio/internal/domain/student"
)

// Color keys understood by the dashboard front end.
const (
	ColorPositive = "green"
	ColorWarning  = "amber"
	ColorNegative = "red"
	ColorNeutral  = "grey"
)

var attendanceColors = map[string]string{
	string(domainEnrollment.StatusAttended):  ColorPositive,
	string(domainEnrollment.StatusAbsent):    ColorWarning,
	string(domainEnrollment.StatusCancelled): ColorNegative,
}

var equipmentColors = map[string]string{
	string(domainEquipment.StatusOperational): ColorPositive,
	string(domainEquipment.StatusMaintenance): ColorWarning,
	string(domainEquipment.StatusBroken):      ColorNegative,
}

var memberColors = map[string]string{
	"active":   ColorPositive,
	"pending":  ColorWarning,
	"inactive": ColorNeutral,
}

func enrollmentSessionAt(e domainEnrollment.Enrollment) time.Time { return e.SessionAt }
func enrollmentEnrolledAt(e domainEnrollment.Enrollment) time.Time { return e.EnrolledAt }
func incomeReceivedAt(e domainIncome.Entry) time.Time { return e.ReceivedAt }
func itemCreatedAt(i domainEquipment.Item) time.Time { return i.CreatedAt }
func memberCreatedAt(m domainStaff.Member) time.Time { return m.CreatedAt }
func studentCreatedAt(s domainStudent.Student) time.Time { return s.CreatedAt }

func labels[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// PrepareAttendanceChart splits the sessions held in rng by attendance outcome.
// PRE: rng.From <= rng.To
// POST: Slices follow attended, absent, cancelled; unscheduled sessions are ignored
func PrepareAttendanceChart(enrollments []domainEnrollment.Enrollment, rng chartdata.DateRange) chartdata.CategoricalAggregate {
	held := chartdata.Filter(enrollments, rng, enrollmentSessionAt)
	return chartdata.Categorize(held, chartdata.CategoricalOptions[domainEnrollment.Enrollment]{
		Classifier: chartdata.ClassifierFunc[domainEnrollment.Enrollment](func(e domainEnrollment.Enrollment) string {
			return string(e.Status)
		}),
		Order:  labels(domainEnrollment.Statuses),
		Colors: attendanceColors,
	})
}

// PrepareIncomeBreakdown sums income received in rng per category.
// totalIncome, when valid, is the denominator for percentages; otherwise the
// breakdown's own sum is used.
// PRE: rng.From <= rng.To
// POST: Slices are ordered by amount descending with percentages rounded to one decimal
func PrepareIncomeBreakdown(entries []domainIncome.Entry, rng chartdata.DateRange, totalIncome decimal.NullDecimal) chartdata.CategoricalAggregate {
	received := chartdata.Filter(entries, rng, incomeReceivedAt)
	return chartdata.Categorize(received, chartdata.CategoricalOptions[domainIncome.Entry]{
		Classifier: chartdata.ClassifierFunc[domainIncome.Entry](func(e domainIncome.Entry) string {
			return e.Category
		}),
		Amount:      func(e domainIncome.Entry) decimal.Decimal { return e.Amount },
		Percentages: true,
		Denominator: totalIncome,
	})
}

// PrepareEquipmentStatusChart splits equipment added in rng by health state.
func PrepareEquipmentStatusChart(items []domainEquipment.Item, rng chartdata.DateRange) chartdata.CategoricalAggregate {
	added := chartdata.Filter(items, rng, itemCreatedAt)
	return chartdata.Categorize(added, chartdata.CategoricalOptions[domainEquipment.Item]{
		Classifier: chartdata.ClassifierFunc[domainEquipment.Item](func(i domainEquipment.Item) string {
			return string(i.Status)
		}),
		Order:  labels(domainEquipment.Statuses),
		Colors: equipmentColors,
	})
}

// PrepareEquipmentCategoryChart counts equipment added in rng per category, with shares.
func PrepareEquipmentCategoryChart(items []domainEquipment.Item, rng chartdata.DateRange) chartdata.CategoricalAggregate {
	added := chartdata.Filter(items, rng, itemCreatedAt)
	return chartdata.Categorize(added, chartdata.CategoricalOptions[domainEquipment.Item]{
		Classifier: chartdata.ClassifierFunc[domainEquipment.Item](func(i domainEquipment.Item) string {
			return i.Category
		}),
		Percentages: true,
	})
}

// PrepareStaffStatusChart splits staff hired in rng by employment status.
func PrepareStaffStatusChart(staff []domainStaff.Member, rng chartdata.DateRange) chartdata.CategoricalAggregate {
	hired := chartdata.Filter(staff, rng, memberCreatedAt)
	return chartdata.Categorize(hired, chartdata.CategoricalOptions[domainStaff.Member]{
		Classifier: chartdata.ClassifierFunc[domainStaff.Member](func(m domainStaff.Member) string {
			return string(m.Status)
		}),
		Order:  labels(domainStaff.Statuses),
		Colors: memberColors,
	})
}

// PrepareStudentStatusChart splits students registered in rng by membership status.
func PrepareStudentStatusChart(students []domainStudent.Student, rng chartdata.DateRange) chartdata.CategoricalAggregate {
	registered := chartdata.Filter(students, rng, studentCreatedAt)
	return chartdata.Categorize(registered, chartdata.CategoricalOptions[domainStudent.Student]{
		Classifier: chartdata.ClassifierFunc[domainStudent.Student](func(s domainStudent.Student) string {
			return string(s.Status)
		}),
		Order:  labels(domainStudent.Statuses),
		Colors: memberColors,
	})
}

// PrepareRegistrationsChart counts new students per day or week across rng.
// A nil formatter uses chartdata.DefaultFormatter.
func PrepareRegistrationsChart(students []domainStudent.Student, rng chartdata.DateRange, f chartdata.BucketFormatter) chartdata.TimeSeriesAggregate {
	return chartdata.Series(students, rng, chartdata.SelectGranularity(rng, f), studentCreatedAt)
}

// PrepareEnrollmentTrend counts bookings per day or week across rng.
// A nil formatter uses chartdata.DefaultFormatter.
func PrepareEnrollmentTrend(enrollments []domainEnrollment.Enrollment, rng chartdata.DateRange, f chartdata.BucketFormatter) chartdata.TimeSeriesAggregate {
	return chartdata.Series(enrollments, rng, chartdata.SelectGranularity(rng, f), enrollmentEnrolledAt)
}

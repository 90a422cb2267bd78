// Package e2e provides end-to-end tests with a generated hospital corpus and multiple queries.
package e2e

import (
	"fmt"

	"github.com/hyperjump/medisearch/internal/models"
)

// QueryTestCase defines a query and the record ID(s) that must appear in search results.
type QueryTestCase struct {
	Query       string
	Type        string
	ExpectedIDs []string
	Description string
}

// Corpus holds generated records per entity type and the query test cases over them.
type Corpus struct {
	Medicines    []models.Record
	Patients     []models.Record
	Appointments []models.Record
	Staff        []models.Record
	TestCases    []QueryTestCase
}

// Total returns the number of records across all types.
func (c *Corpus) Total() int {
	return len(c.Medicines) + len(c.Patients) + len(c.Appointments) + len(c.Staff)
}

var (
	drugNames = []string{
		"Paracetamol", "Ibuprofen", "Amoxicillin", "Cefuroxime", "Omeprazole",
		"Metformin", "Amlodipine", "Losartan", "Cetirizine", "Vitamin",
	}
	drugCategories = []string{"Thuốc viên", "Thuốc tiêm", "Siro"}
	suppliers      = []string{"Dược Hậu Giang", "Traphaco", "Imexpharm", "Pymepharco"}

	familyNames = []string{"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Vũ", "Đặng", "Bùi"}
	middleNames = []string{"Văn", "Thị", "Minh", "Thu", "Quốc"}
	givenNames  = []string{"An", "Bình", "Chi", "Dũng", "Giang", "Hà", "Khánh", "Lan", "Mai", "Nam", "Phúc"}

	doctors          = []string{"BS. Trần Quang", "BS. Lê Hồng", "BS. Phạm Tuấn"}
	appointmentTypes = []string{"Khám tổng quát", "Tái khám", "Tư vấn"}
	apptStatuses     = []string{"scheduled", "confirmed", "completed", "cancelled"}
	departments      = []string{"Nội khoa", "Ngoại khoa", "Nhi khoa", "Dược"}
	roles            = []string{"doctor", "nurse", "pharmacist", "receptionist"}
)

// BuildCorpus returns n records of each of medicine, patient and appointment, plus
// n/4 staff records. Every record carries a unique code so queries can assert the
// right record is returned.
func BuildCorpus(n int) *Corpus {
	c := &Corpus{}
	for i := 0; i < n; i++ {
		c.Medicines = append(c.Medicines, models.Record{
			"id":             fmt.Sprintf("med_%03d", i),
			"type":           "medicine",
			"name":           fmt.Sprintf("%s %dmg", drugNames[i%len(drugNames)], 100+10*i),
			"medicine_code":  fmt.Sprintf("MED%04d", i),
			"category":       drugCategories[i%len(drugCategories)],
			"supplier_name":  suppliers[i%len(suppliers)],
			"price":          float64(1000 * (i + 1)),
			"stock_quantity": float64(i * 3),
			"is_active":      i%5 != 0,
			"created_at":     fmt.Sprintf("2024-01-%02dT08:00:00Z", i%28+1),
		})
		c.Patients = append(c.Patients, models.Record{
			"id":           fmt.Sprintf("pat_%03d", i),
			"type":         "patient",
			"full_name":    patientName(i),
			"patient_code": fmt.Sprintf("BN%04d", i),
			"gender":       []string{"male", "female"}[i%2],
			"phone":        fmt.Sprintf("0901%06d", i),
			"status":       "active",
			"created_at":   fmt.Sprintf("2023-%02d-10T09:30:00Z", i%12+1),
		})
		c.Appointments = append(c.Appointments, models.Record{
			"id":               fmt.Sprintf("apt_%03d", i),
			"type":             "appointment",
			"appointment_code": fmt.Sprintf("LH%04d", i),
			"patient_name":     patientName(i),
			"doctor_name":      doctors[i%len(doctors)],
			"appointment_date": fmt.Sprintf("2024-%02d-15", i%12+1),
			"appointment_type": appointmentTypes[i%len(appointmentTypes)],
			"status":           apptStatuses[i%len(apptStatuses)],
			"duration_minutes": float64(15 + 15*(i%3)),
			"reason":           fmt.Sprintf("Đau đầu kéo dài lần %d", i),
		})
	}
	for i := 0; i < n/4; i++ {
		c.Staff = append(c.Staff, models.Record{
			"id":         fmt.Sprintf("stf_%03d", i),
			"full_name":  patientName(i + n),
			"staff_code": fmt.Sprintf("NV%04d", i),
			"department": departments[i%len(departments)],
			"role":       roles[i%len(roles)],
			"is_active":  "true",
		})
	}
	c.TestCases = buildQueryTestCases(c)
	return c
}

func patientName(i int) string {
	return fmt.Sprintf("%s %s %s",
		familyNames[i%len(familyNames)],
		middleNames[(i/len(familyNames))%len(middleNames)],
		givenNames[i%len(givenNames)],
	)
}

// buildQueryTestCases returns one code lookup per every seventh record of each type.
func buildQueryTestCases(c *Corpus) []QueryTestCase {
	var cases []QueryTestCase
	for i := 0; i < len(c.Medicines); i += 7 {
		cases = append(cases, QueryTestCase{
			Query:       c.Medicines[i]["medicine_code"].(string),
			Type:        "medicine",
			ExpectedIDs: []string{c.Medicines[i]["id"].(string)},
			Description: "medicine by code",
		})
	}
	for i := 0; i < len(c.Patients); i += 7 {
		cases = append(cases, QueryTestCase{
			Query:       c.Patients[i]["patient_code"].(string),
			Type:        "patient",
			ExpectedIDs: []string{c.Patients[i]["id"].(string)},
			Description: "patient by code",
		})
	}
	for i := 0; i < len(c.Appointments); i += 7 {
		cases = append(cases, QueryTestCase{
			Query:       c.Appointments[i]["appointment_code"].(string),
			Type:        "appointment",
			ExpectedIDs: []string{c.Appointments[i]["id"].(string)},
			Description: "appointment by code",
		})
	}
	for i := 0; i < len(c.Staff); i += 3 {
		cases = append(cases, QueryTestCase{
			Query:       c.Staff[i]["staff_code"].(string),
			Type:        "staff",
			ExpectedIDs: []string{c.Staff[i]["id"].(string)},
			Description: "staff by code",
		})
	}
	cases = append(cases, QueryTestCase{
		Query:       drugNames[0],
		Type:        "medicine",
		ExpectedIDs: []string{c.Medicines[0]["id"].(string)},
		Description: "medicine by name",
	})
	return cases
}

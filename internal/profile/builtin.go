package profile

var defaultKinds = map[string]Kind{
	"id":               KindKeyword,
	"type":             KindKeyword,
	"import_id":        KindKeyword,
	"status":           KindKeyword,
	"category":         KindKeyword,
	"role":             KindKeyword,
	"payment_status":   KindKeyword,
	"payment_method":   KindKeyword,
	"department":       KindKeyword,
	"gender":           KindKeyword,
	"supplier_name":    KindKeyword,
	"doctor_name":      KindKeyword,
	"appointment_type": KindKeyword,
	"test_type":        KindKeyword,
	"blood_type":       KindKeyword,
	"unit":             KindKeyword,

	"is_active":      KindBoolean,
	"email_verified": KindBoolean,

	"created_at":       KindDate,
	"updated_at":       KindDate,
	"date_of_birth":    KindDate,
	"appointment_date": KindDate,
	"invoice_date":     KindDate,
	"test_date":        KindDate,
	"last_login":       KindDate,

	"price":            KindNumeric,
	"stock_quantity":   KindNumeric,
	"total_amount":     KindNumeric,
	"paid_amount":      KindNumeric,
	"duration_minutes": KindNumeric,

	"title":            KindText,
	"content":          KindText,
	"description":      KindText,
	"name":             KindText,
	"full_name":        KindText,
	"generic_name":     KindText,
	"patient_name":     KindText,
	"test_name":        KindText,
	"notes":            KindText,
	"reason":           KindText,
	"address":          KindText,
	"result_value":     KindText,
	"normal_range":     KindText,
	"phone":            KindText,
	"email":            KindText,
	"username":         KindText,
	"manufacturer":     KindText,
	"specialization":   KindText,
	"position":         KindText,
	"contact_person":   KindText,
	"patient_code":     KindText,
	"staff_code":       KindText,
	"medicine_code":    KindText,
	"service_code":     KindText,
	"appointment_code": KindText,
	"invoice_number":   KindText,
}

var defaultLabels = map[string]map[string]string{
	"is_active": {
		"true":  "Đang hoạt động",
		"false": "Ngừng hoạt động",
	},
	"email_verified": {
		"true":  "Đã xác thực",
		"false": "Chưa xác thực",
	},
	"gender": {
		"male":   "Nam",
		"female": "Nữ",
		"other":  "Khác",
	},
	"payment_status": {
		"paid":      "Đã thanh toán",
		"pending":   "Chờ thanh toán",
		"partial":   "Thanh toán một phần",
		"cancelled": "Đã hủy",
		"refunded":  "Đã hoàn tiền",
	},
	"status": {
		"active":      "Đang hoạt động",
		"inactive":    "Ngừng hoạt động",
		"scheduled":   "Đã đặt lịch",
		"confirmed":   "Đã xác nhận",
		"completed":   "Hoàn thành",
		"cancelled":   "Đã hủy",
		"pending":     "Đang chờ",
		"paid":        "Đã thanh toán",
		"in_progress": "Đang thực hiện",
		"abnormal":    "Bất thường",
		"normal":      "Bình thường",
	},
	"role": {
		"admin":        "Quản trị viên",
		"doctor":       "Bác sĩ",
		"nurse":        "Y tá",
		"pharmacist":   "Dược sĩ",
		"receptionist": "Lễ tân",
		"accountant":   "Kế toán",
		"patient":      "Bệnh nhân",
	},
}

var genericProfile = TypeProfile{
	Type:  GenericType,
	Label: "Khác",
	Weights: []FieldWeight{
		{"title", 5}, {"name", 4}, {"full_name", 4}, {"content", 2}, {"description", 1.5},
	},
	PhraseFields: []string{"title", "content"},
	PhraseSlop:   2,
	PhraseBoost:  2,
	Facets: []FacetField{
		{"category", 1, 10}, {"status", 1, 10},
	},
	DateField: "created_at",
	Canonical: []CanonicalField{
		{Name: "title", Fallback: "name", Default: "", Kind: KindText},
	},
	SuggestFields: []string{"title", "name", "full_name", "generic_name", "test_name"},
}

var builtinProfiles = []TypeProfile{
	{
		Type:  "patient",
		Label: "Bệnh nhân",
		Weights: []FieldWeight{
			{"full_name", 5}, {"patient_code", 4}, {"phone", 3}, {"email", 2}, {"address", 1}, {"notes", 0.5},
		},
		PhraseFields: []string{"full_name"},
		PhraseSlop:   2,
		PhraseBoost:  3,
		Facets:       []FacetField{{"status", 1, 10}, {"gender", 1, 5}},
		Canonical: []CanonicalField{
			{Name: "full_name", Fallback: "title", Default: "", Kind: KindText},
			{Name: "patient_code", Default: "", Kind: KindText},
			{Name: "phone", Default: "", Kind: KindText},
			{Name: "email", Default: "", Kind: KindText},
			{Name: "gender", Default: "", Kind: KindKeyword},
			{Name: "date_of_birth", Default: "", Kind: KindDate},
			{Name: "address", Default: "", Kind: KindText},
			{Name: "blood_type", Default: "", Kind: KindKeyword},
		},
		SuggestFields: []string{"full_name", "patient_code"},
	},
	{
		Type:  "staff",
		Label: "Nhân viên",
		Weights: []FieldWeight{
			{"full_name", 5}, {"staff_code", 4}, {"email", 2}, {"phone", 2}, {"department", 2}, {"specialization", 2}, {"position", 1},
		},
		PhraseFields: []string{"full_name"},
		PhraseSlop:   2,
		PhraseBoost:  3,
		Facets:       []FacetField{{"department", 1, 10}, {"role", 1, 10}, {"is_active", 1, 2}},
		Canonical: []CanonicalField{
			{Name: "full_name", Fallback: "title", Default: "", Kind: KindText},
			{Name: "staff_code", Default: "", Kind: KindText},
			{Name: "email", Default: "", Kind: KindText},
			{Name: "phone", Default: "", Kind: KindText},
			{Name: "department", Default: "", Kind: KindKeyword},
			{Name: "role", Default: "", Kind: KindKeyword},
			{Name: "position", Default: "", Kind: KindText},
			{Name: "specialization", Default: "", Kind: KindText},
			{Name: "is_active", Default: true, Kind: KindBoolean},
		},
		SuggestFields: []string{"full_name", "staff_code"},
	},
	{
		Type:  "medicine",
		Label: "Thuốc",
		Weights: []FieldWeight{
			{"name", 5}, {"generic_name", 4}, {"medicine_code", 3}, {"description", 1.5}, {"manufacturer", 1.5}, {"supplier_name", 1}, {"category", 1},
		},
		PhraseFields: []string{"name", "generic_name"},
		PhraseSlop:   1,
		PhraseBoost:  3,
		Facets:       []FacetField{{"category", 1, 15}, {"supplier_name", 1, 10}, {"is_active", 1, 2}},
		Canonical: []CanonicalField{
			{Name: "name", Fallback: "title", Default: "", Kind: KindText},
			{Name: "generic_name", Default: "", Kind: KindText},
			{Name: "medicine_code", Default: "", Kind: KindText},
			{Name: "category", Default: "", Kind: KindKeyword},
			{Name: "unit", Default: "", Kind: KindKeyword},
			{Name: "price", Default: 0.0, Kind: KindNumeric},
			{Name: "stock_quantity", Default: 0.0, Kind: KindNumeric},
			{Name: "supplier_name", Default: "", Kind: KindKeyword},
			{Name: "manufacturer", Default: "", Kind: KindText},
			{Name: "is_active", Default: true, Kind: KindBoolean},
		},
		SuggestFields: []string{"name", "generic_name"},
	},
	{
		Type:  "appointment",
		Label: "Lịch hẹn",
		Weights: []FieldWeight{
			{"patient_name", 4}, {"doctor_name", 4}, {"appointment_code", 3}, {"reason", 3}, {"notes", 1},
		},
		PhraseFields: []string{"reason"},
		PhraseSlop:   3,
		PhraseBoost:  2,
		Facets:       []FacetField{{"status", 1, 10}, {"doctor_name", 1, 10}, {"appointment_type", 1, 10}},
		DateField:    "appointment_date",
		YearlyFacet:  true,
		Canonical: []CanonicalField{
			{Name: "appointment_code", Fallback: "title", Default: "", Kind: KindText},
			{Name: "patient_name", Default: "", Kind: KindText},
			{Name: "doctor_name", Default: "", Kind: KindKeyword},
			{Name: "appointment_date", Default: "", Kind: KindDate},
			{Name: "appointment_type", Default: "", Kind: KindKeyword},
			{Name: "duration_minutes", Default: 0.0, Kind: KindNumeric},
			{Name: "reason", Default: "", Kind: KindText},
		},
		SuggestFields: []string{"patient_name", "appointment_code"},
	},
	{
		Type:  "invoice",
		Label: "Hóa đơn",
		Weights: []FieldWeight{
			{"invoice_number", 5}, {"patient_name", 4}, {"notes", 1},
		},
		PhraseFields: []string{"patient_name"},
		PhraseSlop:   1,
		PhraseBoost:  2,
		Facets:       []FacetField{{"payment_status", 1, 10}, {"status", 1, 10}},
		DateField:    "invoice_date",
		YearlyFacet:  true,
		Canonical: []CanonicalField{
			{Name: "invoice_number", Fallback: "title", Default: "", Kind: KindText},
			{Name: "patient_name", Default: "", Kind: KindText},
			{Name: "invoice_date", Default: "", Kind: KindDate},
			{Name: "total_amount", Default: 0.0, Kind: KindNumeric},
			{Name: "paid_amount", Default: 0.0, Kind: KindNumeric},
			{Name: "payment_status", Default: "pending", Kind: KindKeyword},
			{Name: "payment_method", Default: "", Kind: KindKeyword},
		},
		SuggestFields: []string{"invoice_number", "patient_name"},
	},
	{
		Type:  "service",
		Label: "Dịch vụ",
		Weights: []FieldWeight{
			{"name", 5}, {"service_code", 3}, {"description", 2}, {"category", 1},
		},
		PhraseFields: []string{"name", "description"},
		PhraseSlop:   2,
		PhraseBoost:  2,
		Facets:       []FacetField{{"category", 1, 15}, {"is_active", 1, 2}},
		Canonical: []CanonicalField{
			{Name: "name", Fallback: "title", Default: "", Kind: KindText},
			{Name: "service_code", Default: "", Kind: KindText},
			{Name: "category", Default: "", Kind: KindKeyword},
			{Name: "price", Default: 0.0, Kind: KindNumeric},
			{Name: "duration_minutes", Default: 0.0, Kind: KindNumeric},
			{Name: "is_active", Default: true, Kind: KindBoolean},
		},
		SuggestFields: []string{"name", "service_code"},
	},
	{
		Type:  "supplier",
		Label: "Nhà cung cấp",
		Weights: []FieldWeight{
			{"name", 5}, {"contact_person", 3}, {"phone", 2}, {"email", 2}, {"address", 1},
		},
		PhraseFields: []string{"name"},
		PhraseSlop:   1,
		PhraseBoost:  2,
		Facets:       []FacetField{{"status", 1, 10}, {"is_active", 1, 2}},
		Canonical: []CanonicalField{
			{Name: "name", Fallback: "title", Default: "", Kind: KindText},
			{Name: "contact_person", Default: "", Kind: KindText},
			{Name: "phone", Default: "", Kind: KindText},
			{Name: "email", Default: "", Kind: KindText},
			{Name: "address", Default: "", Kind: KindText},
			{Name: "is_active", Default: true, Kind: KindBoolean},
		},
		SuggestFields: []string{"name", "contact_person"},
	},
	{
		Type:  "test_result",
		Label: "Kết quả xét nghiệm",
		Weights: []FieldWeight{
			{"test_name", 5}, {"patient_name", 4}, {"result_value", 2}, {"doctor_name", 1}, {"notes", 1},
		},
		PhraseFields: []string{"test_name"},
		PhraseSlop:   2,
		PhraseBoost:  2,
		Facets:       []FacetField{{"status", 1, 10}, {"test_type", 1, 10}},
		DateField:    "test_date",
		YearlyFacet:  true,
		Canonical: []CanonicalField{
			{Name: "test_name", Fallback: "title", Default: "", Kind: KindText},
			{Name: "patient_name", Default: "", Kind: KindText},
			{Name: "doctor_name", Default: "", Kind: KindKeyword},
			{Name: "test_type", Default: "", Kind: KindKeyword},
			{Name: "test_date", Default: "", Kind: KindDate},
			{Name: "result_value", Default: "", Kind: KindText},
			{Name: "unit", Default: "", Kind: KindKeyword},
			{Name: "normal_range", Default: "", Kind: KindText},
		},
		SuggestFields: []string{"test_name", "patient_name"},
	},
	{
		Type:  "account",
		Label: "Tài khoản",
		Weights: []FieldWeight{
			{"username", 5}, {"email", 4}, {"full_name", 3},
		},
		PhraseFields: []string{"full_name"},
		PhraseSlop:   1,
		PhraseBoost:  2,
		Facets:       []FacetField{{"role", 1, 10}, {"is_active", 1, 2}, {"email_verified", 1, 2}},
		Canonical: []CanonicalField{
			{Name: "username", Fallback: "title", Default: "", Kind: KindText},
			{Name: "email", Default: "", Kind: KindText},
			{Name: "full_name", Default: "", Kind: KindText},
			{Name: "role", Default: "", Kind: KindKeyword},
			{Name: "is_active", Default: true, Kind: KindBoolean},
			{Name: "email_verified", Default: false, Kind: KindBoolean},
			{Name: "last_login", Default: "", Kind: KindDate},
		},
		SuggestFields: []string{"username", "email", "full_name"},
	},
}

// Default returns a registry with the built-in hospital entity types.
func Default() *Registry {
	return NewRegistry(genericProfile, builtinProfiles, defaultKinds, defaultLabels)
}

package catalog

// FormID keys the fee table and the USCIS processing-time table.
type FormID string

const (
	FormI140            FormID = "I-140"
	FormAsylumFee       FormID = "asylum-program-fee"
	FormI485            FormID = "I-485"
	FormI130            FormID = "I-130"
	FormI526E           FormID = "I-526E"
	FormI129H           FormID = "I-129H"
	FormI129L           FormID = "I-129L"
	FormI129O           FormID = "I-129O"
	FormH1BRegistration FormID = "h1b-registration"
	FormFraudFee        FormID = "fraud-prevention-fee"
	FormI765            FormID = "I-765"
	FormI901            FormID = "I-901"
	FormTNEntry         FormID = "tn-entry"
)

// Forms lists every form in a stable order.
var Forms = []FormID{
	FormI140, FormAsylumFee, FormI485, FormI130, FormI526E,
	FormI129H, FormI129L, FormI129O, FormH1BRegistration, FormFraudFee,
	FormI765, FormI901, FormTNEntry,
}

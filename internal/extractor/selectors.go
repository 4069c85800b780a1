package extractor

// listingRowSelector matches one park row of a state listing page.
const listingRowSelector = ".col-md-9.col-sm-9.col-xs-12.table-cell.list_left"

// detailPage is the file every park link is completed with.
const detailPage = "index.htm"

type fieldRule struct {
	name     string
	selector string
	sentinel string
}

// Detail page markers, in the order they are read.
//
//nolint:gochecknoglobals // static lookup table
var (
	nameRule     = fieldRule{name: "name", selector: ".Hero-title", sentinel: "No name"}
	categoryRule = fieldRule{name: "category", selector: ".Hero-designation", sentinel: "No category"}
	cityRule     = fieldRule{name: "city", selector: "[itemprop=addressLocality]", sentinel: "No city"}
	stateRule    = fieldRule{name: "state", selector: "[itemprop=addressRegion]", sentinel: "No state"}
	zipcodeRule  = fieldRule{name: "zipcode", selector: "[itemprop=postalCode]", sentinel: "No zipcode"}
	phoneRule    = fieldRule{name: "phone", selector: ".tel", sentinel: "No phone number"}
)

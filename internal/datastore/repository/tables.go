package repository

// Table name constants.
const (
	tableManufacturers = "manufacturers"
	tableDevices       = "devices"
	tableToneFiles     = "tone_files"
	tableIRFiles       = "ir_files"
	tableNAMFiles      = "nam_files"
	tableLinks         = "tone_file_device_links"
)

package checklist

import "github.com/dalemusser/fleetcheckr/internal/domain/models"

// defaultCategories is the built-in checklist. Never hand it out directly;
// DefaultTemplate returns a copy.
var defaultCategories = []models.Category{
	{
		ID:   "driver",
		Name: "Driver",
		Icon: "Driver",
		Items: []models.Item{
			{ID: "driver_license_insurance", Name: "Vehicle License & Insurance", Description: "Are the vehicle license(s) and insurance certificate valid?"},
			{ID: "driver_valid_license", Name: "Driver's License", Description: "Does the driver have a valid driver's license?"},
			{ID: "driver_induction_card", Name: "Induction Card", Description: "Has the driver undergone DDT& does he possess a valid induction card?"},
			{ID: "driver_ppe", Name: "Basic PPE", Description: "Does the driver have his basic PPE (helmet, safety boots, and overall)?"},
		},
	},
	{
		ID:   "prime_mover",
		Name: "Prime Mover/Tractor Head",
		Icon: "PrimeMover",
		Items: []models.Item{
			{ID: "pm_oil_fuel_leaks", Name: "Oil and Fuel Leaks", Description: "Is the truck free from oil and fuel leaks?"},
			{ID: "pm_windscreen", Name: "Windscreen", Description: "Is it clear of unnecessary stickers and free of cracks?"},
			{ID: "pm_lights_wipers", Name: "Lights & Wipers", Description: "Are the head lights, trafficators and wiper in good functional condition?"},
			{ID: "pm_horn_alarm", Name: "Horn and Reverse Alarm", Description: "Are they functional?"},
			{ID: "pm_mirrors", Name: "Driving Mirrors", Description: "Are all mirrors firmly fixed and well positioned for good visibility?"},
			{ID: "pm_tires", Name: "Tires Condition", Description: "Are all tires in good condition and well inflated? (360 degrees inspection)"},
			{ID: "pm_studs_nuts", Name: "Wheel Studs & Nuts", Description: "The wheels have all the required studs and nuts (no missing nuts)"},
			{ID: "pm_cabin", Name: "Cabin Condition", Description: "The cabin, doors, seats, 3-point belts, floor plate, steps and other parts intact?"},
			{ID: "pm_engine_start", Name: "Engine Start", Description: "The engine starts using the starter/battery? (no pushing, non-usage of wires)"},
			{ID: "pm_hand_brake", Name: "Hand Brake/Park Brake", Description: "Is the hand brake/park brake functional?"},
			{ID: "pm_aux_braking", Name: "Auxiliary Braking System", Description: "Is the vehicle equipped with an auxiliary braking system (bevel brake, coolant, engine brake)"},
			{ID: "pm_extinguisher", Name: "Fire Extinguisher & Safety Cone", Description: "Is the vehicle with one 9kg extinguisher and 2 caution sign/Safety Cone"},
			{ID: "pm_jack", Name: "Functional Jack", Description: "Does the vehicle have a functional jack?"},
			{ID: "pm_wheel_chokes", Name: "Wheel Chokes", Description: "Does the vehicle have 2 standard wheel chokes with handles?"},
			{ID: "pm_cigarette_lighter", Name: "Cigarette Lighter", Description: "The cigarette lighter is removed from the cabin"},
			{ID: "pm_cabin_items", Name: "Cabin Free of Items", Description: "Is the cabin free of any moving item?"},
			{ID: "pm_battery_secured", Name: "Battery Secure", Description: "Battery is properly secured?"},
			{ID: "pm_battery_terminals", Name: "Battery Terminals & Cables", Description: "Are the battery terminals and electrical cables well insulated?"},
			{ID: "pm_exhaust", Name: "Exhaust Condition", Description: "Is exhaust intact, silent, free of leaks and not smoking?"},
			{ID: "pm_fuel_pipes", Name: "Fuel/CNG Pipes & Air Tanks", Description: "Fuel, CNG linking pipes and air tanks are properly locked."},
		},
	},
	{
		ID:   "trailer_container",
		Name: "Trailer/Container",
		Icon: "Trailer",
		Items: []models.Item{
			{ID: "tc_brakes", Name: "Trailer Brakes", Description: "Must operate correctly when connected to tractor. (check air hose of trailer)"},
			{ID: "tc_axles", Name: "Axles", Description: "The trailer must have a minimum of 2 axles."},
			{ID: "tc_kingpin", Name: "Kingpin Play", Description: "The kingpin play in relation to fifth wheel checked (check greasy turntable)"},
			{ID: "tc_landing_legs", Name: "Landing Legs", Description: "The trailer landing legs are straight and adjustable not welded (landing sit is well secured)"},
			{ID: "tc_twistlock", Name: "Twistlock", Description: "Check the twistlock if well secured"},
			{ID: "tc_loading_bed", Name: "Loading Bed Condition", Description: "Is the loading bed smooth, free from obstructions and gaping holes?"},
			{ID: "tc_hooks", Name: "Loading Bed Hooks", Description: "Are the hooks of the trailer loading bed (SIDED BODY) intact?"},
			{ID: "tc_chassis", Name: "Trailer Body/Chassis", Description: "Is the trailer body (chassis) intact and there is no visible cracks and has worn parts?"},
			{ID: "tc_trailer_tires", Name: "Trailer Tires", Description: "All trailer tyres good in condition and well inflated? (360 degrees inspection) MINIMUM DEPTH OF 2.5MM"},
			{ID: "tc_spare_wheel", Name: "Spare Wheel", Description: "Does the vehicle have a good inflated spare wheel?"},
			{ID: "tc_tarpaulin_harness", Name: "Tarpaulin Harnessing Devices", Description: "Are the tarpaulin harnessing devices in position? Are they appropriate and adequate?"},
			{ID: "tc_wheel_nuts", Name: "Wheel Nuts/Studs", Description: "wheel nuts/studs are complete and fastened. Hub cover"},
			{ID: "tc_tarpaulin", Name: "Tarpaulin Adequacy", Description: "Is there a good and adequate tarpaulin?"},
			{ID: "tc_reflectors", Name: "Rear Safety Reflectors", Description: "Is rear safety reflectors fitted to the trailer? And conspicuity tape fitted."},
			{ID: "tc_twist_lock_intact", Name: "Twist Lock Intactness", Description: "Is the twist lock well intact"},
		},
	},
}

// DefaultTemplate returns a fresh copy of the built-in checklist.
func DefaultTemplate() []models.Category {
	return Clone(defaultCategories)
}

// Icons are the names the UI knows how to render.
var Icons = []string{
	"Cog", "Droplets", "Car", "Armchair", "Circle", "Lightbulb", "Fan",
	"Gauge", "BatteryCharging", "CarFront", "Sofa", "Siren", "Thermometer",
	"Speaker", "Snowflake", "Disc", "Fuel", "SprayCan", "SlidersHorizontal", "Wrench",
	"AirVent", "Power", "Settings2", "Radio", "CircuitBoard", "Heater", "ParkingCircle",
	"Tires&Wheels", "ElectricalSystem", "Driver", "PrimeMover", "Trailer",
}

package survival

import "fmt"

// Weather is the current global weather.
type Weather string

const (
	WeatherClear          Weather = "clear"
	WeatherAcidRain       Weather = "acid_rain"
	WeatherRadiationStorm Weather = "radiation_storm"
	WeatherNuclearWinter  Weather = "nuclear_winter"
)

const weatherChangeChance = 0.15

var hazardWeather = []Weather{WeatherAcidRain, WeatherRadiationStorm, WeatherNuclearWinter}

type weatherInfo struct {
	label   string
	warning string
	sound   SoundTag
}

var weatherTable = map[Weather]weatherInfo{
	WeatherAcidRain: {
		label:   "☔ Acid Rain",
		warning: "☔ Acid rain begins to fall! The drops sizzle on every surface.",
		sound:   SoundAcidRain,
	},
	WeatherRadiationStorm: {
		label:   "☢️ Radiation Storm",
		warning: "☢️ A radiation storm rolls in! Geiger counters scream.",
		sound:   SoundRadStorm,
	},
	WeatherNuclearWinter: {
		label:   "❄️ Nuclear Winter",
		warning: "❄️ Nuclear winter descends! Freezing ash blots out the sun.",
		sound:   SoundColdWind,
	},
}

// Label returns a display label for w.
func (w Weather) Label() string {
	if info, ok := weatherTable[w]; ok {
		return info.label
	}
	return "☀️ Clear"
}

// ParseWeather maps a stored value to a Weather, defaulting to clear.
func ParseWeather(s string) Weather {
	w := Weather(s)
	if _, ok := weatherTable[w]; ok {
		return w
	}
	return WeatherClear
}

// updateWeather advances the weather by one day. A running hazard counts
// down and clears when it reaches zero; otherwise a new hazard may start.
func (e *Engine) updateWeather() {
	if e.weatherDuration > 0 {
		e.weatherDuration--
		if e.weatherDuration == 0 {
			e.weather = WeatherClear
			e.log("🌤️ Weather clears up. The sky is calm again.", SeveritySuccess)
			e.notifier.Notify(SoundWeatherClear)
		}
		return
	}
	if e.weather != WeatherClear {
		// A hazard with no remaining duration cannot persist.
		e.weather = WeatherClear
		return
	}
	if !e.rng.Chance(weatherChangeChance) {
		return
	}
	e.weather = hazardWeather[e.rng.Pick(len(hazardWeather))]
	e.weatherDuration = e.rng.Int(2, 4)
	info := weatherTable[e.weather]
	e.log(info.warning, SeverityWarning)
	e.notifier.Notify(info.sound)
}

// applyWeatherEffects applies the current hazard's daily effects.
func (e *Engine) applyWeatherEffects() {
	switch e.weather {
	case WeatherAcidRain:
		damage := e.rng.Int(3, 8)
		e.vitals.Apply(Health, -damage)
		e.logf(SeverityDanger, "☔ Acid rain burns your skin! (-%d health)", damage)
		e.inv.EachDurable(func(_ int, item string, d int) int {
			wear := e.rng.Int(5, 15)
			e.logf(SeverityWarning, "Acid eats at your %s filter (-%d%%)", DisplayName(item), wear)
			return clamp(d-wear, 0, 100)
		})
	case WeatherRadiationStorm:
		gain := e.rng.Int(15, 25)
		if e.upgrades.SolarPanels > 0 {
			gain = max(5, gain-5*e.upgrades.SolarPanels)
		}
		e.vitals.Apply(Radiation, gain)
		e.logf(SeverityDanger, "☢️ The radiation storm irradiates everything! (+%d radiation)", gain)
	case WeatherNuclearWinter:
		food := e.rng.Int(8, 15)
		water := e.rng.Int(5, 10)
		e.vitals.Apply(Food, -food)
		e.vitals.Apply(Water, -water)
		e.log(fmt.Sprintf("❄️ The bitter cold drains your reserves. (-%d food, -%d water)", food, water), SeverityWarning)
	}
}

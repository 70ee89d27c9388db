package roles

// Kind identifies one category of role a player can be dealt.
type Kind string

const (
	Mafia     Kind = "mafia"
	Don       Kind = "don"
	Commissar Kind = "commissar"
	Doctor    Kind = "doctor"
	Killer    Kind = "killer"
	Citizen   Kind = "citizen"
)

// Kinds returns every known role kind in stable deck order. The dealing
// logic iterates this slice, so adding a kind here is enough to make it
// dealable.
func Kinds() []Kind {
	return []Kind{Mafia, Don, Commissar, Doctor, Killer, Citizen}
}

// Meta is display metadata for a role kind. The server never interprets it;
// it is carried for presentation layers that want server-supplied labels.
type Meta struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

var metas = map[Kind]Meta{
	Mafia:     {Label: "Мафия", Description: "Вы в команде мафии. Ваша цель - избавиться от мирных жителей."},
	Don:       {Label: "Дон Мафии", Description: "Вы Дон Мафии. Вы знаете всех мафиози и можете защищаться ночью."},
	Commissar: {Label: "Комиссар", Description: "Вы Комиссар. Проверяйте игроков ночью, чтобы найти мафию."},
	Doctor:    {Label: "Доктор", Description: "Вы Доктор. Вы можете лечить игроков ночью."},
	Killer:    {Label: "Киллер", Description: "Вы Киллер. У вас есть особые способности."},
	Citizen:   {Label: "Мирный житель", Description: "Вы мирный житель. Найдите мафию и проголосуйте против неё."},
}

// MetaFor looks up display metadata for a kind.
func MetaFor(k Kind) (Meta, bool) {
	m, ok := metas[k]
	return m, ok
}

// Settings maps each role kind to the number of players that must receive it.
type Settings map[Kind]int

// Normalize returns a copy with every known kind present: missing or
// negative counts become zero, unknown kinds are dropped.
func (s Settings) Normalize() Settings {
	out := make(Settings, len(metas))
	for _, k := range Kinds() {
		if c := s[k]; c > 0 {
			out[k] = c
		} else {
			out[k] = 0
		}
	}
	return out
}

// Total is the number of players the settings account for.
func (s Settings) Total() int {
	total := 0
	for _, k := range Kinds() {
		if c := s[k]; c > 0 {
			total += c
		}
	}
	return total
}

package commands

import (
	"strconv"
	"strings"
)

// Parse turns an Invocation into a verb and the arguments that verb takes.
// Arguments are shaped per verb so multi-word character and summoner names
// work with or without quotes.
func Parse(inv Invocation) (Request, error) {
	tokens, err := Tokenize(inv.Text)
	if err != nil {
		return Request{}, err
	}

	verb := normalizeVerb(inv.Command)
	if verb == rootVerb || verb == "" {
		if len(tokens) == 0 {
			return Request{Verb: VerbCommands}, nil
		}
		verb, tokens = normalizeVerb(tokens[0]), tokens[1:]
	}

	args, err := shape(verb, tokens)
	if err != nil {
		return Request{}, err
	}
	return Request{Verb: verb, Args: args}, nil
}

// Tokenize splits text on whitespace. A double or single quote at the start
// of a token groups words up to the matching quote, which is dropped. Quotes
// inside a word ("Kai'Sa") are kept.
func Tokenize(text string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case (r == '"' || r == '\'') && !inToken:
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, &UsageError{Reason: "Unterminated quote in arguments."}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// normalizeVerb strips the slash or dot prefix and folds case so "/Update-Stat"
// and ".update_stat" name the same verb.
func normalizeVerb(command string) string {
	verb := strings.ToLower(strings.TrimSpace(command))
	verb = strings.TrimLeft(verb, "/.")
	verb = strings.ReplaceAll(verb, "-", "_")
	if alias, ok := aliases[verb]; ok {
		return alias
	}
	return verb
}

// UpdateStatArgs are the shaped arguments of update_stat.
type UpdateStatArgs struct {
	Game, Character, Stat string
	Value                 int
}

func shape(verb string, tokens []string) ([]string, error) {
	switch verb {
	case VerbUpdateStat:
		// game <character words...> stat value
		if len(tokens) < 4 {
			return nil, &UsageError{Verb: verb}
		}
		n := len(tokens)
		return []string{tokens[0], strings.Join(tokens[1:n-2], " "), tokens[n-2], tokens[n-1]}, nil
	case VerbViewStats, VerbViewStatsAll:
		if len(tokens) > 1 {
			return nil, &UsageError{Verb: verb}
		}
		return tokens, nil
	case VerbLeaderboard:
		if len(tokens) == 0 {
			return nil, &UsageError{Verb: verb, Reason: "Please name a game."}
		}
		if len(tokens) == 1 {
			return tokens, nil
		}
		return []string{tokens[0], strings.Join(tokens[1:], " ")}, nil
	case VerbGetPUUID, VerbTotalMastery:
		name, tag, ok := splitRiotID(tokens)
		if !ok {
			return nil, &UsageError{Verb: verb}
		}
		return []string{name, tag}, nil
	case VerbHello, VerbPing, VerbCommands:
		return nil, nil
	default:
		return nil, &UnknownCommandError{Verb: verb}
	}
}

// splitRiotID accepts "name#tag", "name tag" and multi-word names where the
// tagline is the last token.
func splitRiotID(tokens []string) (name, tag string, ok bool) {
	joined := strings.Join(tokens, " ")
	if i := strings.LastIndex(joined, "#"); i >= 0 {
		name, tag = strings.TrimSpace(joined[:i]), strings.TrimSpace(joined[i+1:])
		return name, tag, name != "" && tag != "" && !strings.Contains(tag, " ")
	}
	if len(tokens) < 2 {
		return "", "", false
	}
	return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1], true
}

// parseUpdateStat converts shaped update_stat arguments.
func parseUpdateStat(args []string) (UpdateStatArgs, error) {
	value, err := strconv.Atoi(args[3])
	if err != nil {
		return UpdateStatArgs{}, &UsageError{Verb: VerbUpdateStat, Reason: "The value must be a whole number."}
	}
	return UpdateStatArgs{Game: args[0], Character: args[1], Stat: args[2], Value: value}, nil
}

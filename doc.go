/*
Package figura implements a small language for 2D figures and their
animations: a lexer, a recursive-descent parser, a tree-walking interpreter
with lexical scopes and a frame-stepped tween engine.

A program declares figures (composite prototypes built from lines, circles
and other figures), animations (parameterized tween sequences) and the
control flow that starts them:

	figure pair {
	    circle left;
	    circle right;
	    right.x = right.x + 40;
	}

	animation spin(pair p) {
	    rotate(p, 360, 2000);
	    stain(p, #ff8800, 2000);
	}

	pair a;
	pair rows[3];
	spin(a);
	for each r in rows move(r, 100, 0, 1000);
	each 1000 a.spin();

Reader example:

	prog, err := figura.DecodeFile("scene.fig", nil)
	if err != nil {
		// handle error; prog holds the statements parsed before a syntax error
	}

Interpreter example:

	in := figura.New(canvas, nil)
	if err := in.Load(prog); err != nil {
		// handle error
	}
	for {
		if err := in.AdvanceFrame(16); err != nil {
			// handle error
		}
	}

Writer example:

	out, err := figura.Format(prog, nil)
	if err != nil {
		// handle error
	}

Validator example:

	issues := figura.Validate(prog, nil)
	if figura.HasErrors(issues) {
		// handle validation issues
	}
*/
package figura
